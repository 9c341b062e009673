package tarkash

var Reset = reset

// Package tarkash is the entry point of the framework. A Context owns one
// reference configuration and one logger and is passed explicitly to the
// code that needs them. Call sites that cannot receive a Context use the
// process-wide accessor: Init once, then GetOptionValue, GetLogger,
// GetRefConfig and RegisterFrameworkConfigDefaults.
//
// The project root is taken from WithProjectDir or from the
// PROJECT_ROOT_DIR environment variable. A .env file found in the working
// directory or one of its parents is loaded first; it never overrides
// variables already set.
package tarkash

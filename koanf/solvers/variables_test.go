package solvers

import (
	"testing"

	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/v2"
	"github.com/stretchr/testify/assert"
)

func load(t *testing.T, values map[string]any) *koanf.Koanf {
	t.Helper()
	k := koanf.New(".")
	if err := k.Load(confmap.Provider(values, "."), nil); err != nil {
		t.Fatalf("load: %v", err)
	}
	return k
}

func TestVariablesSolver(t *testing.T) {
	notMatching := "${NOTHING}"
	k := load(t, map[string]any{
		"PROJECT_DIR":  "/work/proj",
		"LOG_DIR":      "${PROJECT_DIR}/log",
		"REPORT_DIR":   "${PROJECT_DIR}",
		"RETRIES":      3,
		"MAX_RETRIES":  "${RETRIES}",
		"SUMMARY":      "retries=${RETRIES} dir=${PROJECT_DIR}",
		"NOT_MATCHING": notMatching,
		"MIXED":        "${PROJECT_DIR}/${NOTHING}",
	})

	out := NewVariablesSolver("${", "}").Solve(k)

	assert.Equal(t, "/work/proj/log", out.Get("LOG_DIR"))
	assert.Equal(t, "/work/proj", out.Get("REPORT_DIR"))
	assert.Equal(t, 3, out.Get("MAX_RETRIES"), "whole references keep their type")
	assert.Equal(t, "retries=3 dir=/work/proj", out.Get("SUMMARY"))
	assert.Equal(t, notMatching, out.Get("NOT_MATCHING"))
	assert.Equal(t, "/work/proj/${NOTHING}", out.Get("MIXED"))
}

func TestVariablesSolver_Chained(t *testing.T) {
	k := load(t, map[string]any{
		"DATA_DIR":     "${PROJECT_DIR}/data",
		"DATA_SRC_DIR": "${DATA_DIR}/src",
		"PROJECT_DIR":  "/work/proj",
	})

	out := NewVariablesSolver("${", "}").Solve(k)

	assert.Equal(t, "/work/proj/data/src", out.Get("DATA_SRC_DIR"))
}

func TestVariablesSolver_SelfReference(t *testing.T) {
	k := load(t, map[string]any{
		"A": "${A}",
		"B": "x${B}",
	})

	out := NewVariablesSolver("${", "}").Solve(k)

	assert.Equal(t, "${A}", out.Get("A"))
	assert.Equal(t, "x${B}", out.Get("B"))
}

func TestVariablesSolver_CustomDelimiters(t *testing.T) {
	k := load(t, map[string]any{
		"RUN_ID":     "r42",
		"REPORT_DIR": "/reports/@/RUN_ID/",
	})

	out := NewVariablesSolver("@/", "/").Solve(k)

	assert.Equal(t, "/reports/r42", out.Get("REPORT_DIR"))
}

func TestVariablesSolver_Nil(t *testing.T) {
	assert.Nil(t, NewVariablesSolver("${", "}").Solve(nil))
}

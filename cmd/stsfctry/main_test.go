package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
)

type cli struct {
	t    *testing.T
	file string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	return &cli{t: t, file: filepath.Join(t.TempDir(), "stsfctry-recipes.json")}
}

// exec runs the command line against the test file and returns stdout,
// stderr and the exit code.
func (c *cli) exec(args ...string) (string, string, int) {
	c.t.Helper()
	var stdout, stderr bytes.Buffer
	full := append([]string{"--driver", "json", "--file", c.file, "--log-level", "error"}, args...)
	code := run(context.Background(), full, &stdout, &stderr)
	return stdout.String(), stderr.String(), code
}

func (c *cli) mustExec(args ...string) string {
	c.t.Helper()
	out, errOut, code := c.exec(args...)
	if code != 0 {
		c.t.Fatalf("args %v: exit code %d: %s", args, code, errOut)
	}
	return out
}

func expectOutput(t *testing.T, got, want string) {
	t.Helper()
	if got != want {
		t.Fatalf("unexpected output:\n%s\nwant:\n%s", got, want)
	}
}

func TestAddListsAllRecipes(t *testing.T) {
	c := newCLI(t)

	c.mustExec("recipe", "add", "Iron Ore", "60")
	out := c.mustExec("recipe", "add", "Iron Ingot", "30")

	expectOutput(t, out, "Satisfactory Recipes\n001 Iron Ore\n002 Iron Ingot\n")
}

func TestAddDefaultsProductionRateAndCalcUsesIt(t *testing.T) {
	c := newCLI(t)

	c.mustExec("recipe", "add", "Widget")
	out := c.mustExec("calc", "1")

	expectOutput(t, out, "Calculating production of 1 Widget per minute.\n"+
		"Requires 1 production unit(s)\n"+
		"Widget x 1 total consumption 1 per minute\n")
}

func TestDuplicateAndNotFoundArePrintedAndSucceed(t *testing.T) {
	c := newCLI(t)
	c.mustExec("recipe", "add", "Screw", "40")

	out := c.mustExec("recipe", "add", "screw", "40")
	expectOutput(t, out, "Duplicate recipe: screw\nSatisfactory Recipes\n001 Screw\n")

	out = c.mustExec("calc", "42")
	expectOutput(t, out, "Recipe 42 not found\n")

	out = c.mustExec("recipe", "update", "42", "--title", "Bolt")
	expectOutput(t, out, "Recipe 42 not found\n")
}

func TestDependencyCommandsShowTheRecipe(t *testing.T) {
	c := newCLI(t)
	c.mustExec("recipe", "add", "Iron Ingot", "30")
	c.mustExec("recipe", "add", "Iron Rod", "15")
	c.mustExec("recipe", "add", "Screw", "40")

	c.mustExec("recipe", "add-dependency", "2", "1", "15")
	out := c.mustExec("recipe", "add-dependency", "3", "2", "10")
	expectOutput(t, out, "Recipe 3: Screw\n"+
		"Production Rate: 40 per minute\n"+
		"└ 10 per min Iron Rod\n"+
		"  └ 15 per min Iron Ingot\n")

	out = c.mustExec("calc", "3", "80")
	expectOutput(t, out, "Calculating production of 80 Screw per minute.\n"+
		"Requires 2 production unit(s)\n"+
		"└ Iron Rod x 1.3333333333333333 = 20 per minute\n"+
		"  └ Iron Ingot x 0.6666666666666666 = 20 per minute\n"+
		"Screw x 2 total consumption 80 per minute\n"+
		"Iron Rod x 1.3333333333333333 total consumption 20 per minute\n"+
		"Iron Ingot x 0.6666666666666666 total consumption 20 per minute\n")

	out = c.mustExec("recipe", "remove-dependency", "3", "2")
	expectOutput(t, out, "Recipe 3: Screw\nProduction Rate: 40 per minute\n")
}

func TestUpdate(t *testing.T) {
	c := newCLI(t)
	c.mustExec("recipe", "add", "Iron Plate", "20")

	out := c.mustExec("recipe", "update", "1", "--title", "Iron Sheet", "--production-rate", "25")
	expectOutput(t, out, "Recipe updated\n")

	out = c.mustExec("recipe", "list", "1")
	expectOutput(t, out, "Recipe 1: Iron Sheet\nProduction Rate: 25 per minute\n")
}

func TestCycleFailsTheCommand(t *testing.T) {
	c := newCLI(t)
	c.mustExec("recipe", "add", "A", "1")
	c.mustExec("recipe", "add", "B", "1")
	c.mustExec("recipe", "add-dependency", "1", "2", "1")
	c.mustExec("recipe", "add-dependency", "2", "1", "1")

	out, errOut, code := c.exec("calc", "1")
	if code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	if out != "" {
		t.Fatalf("expected no report, got %q", out)
	}
	if !strings.Contains(errOut, "dependency cycle detected: 1 -> 2 -> 1") {
		t.Fatalf("expected the cycle path on stderr, got %q", errOut)
	}
}

func TestInvalidArgumentsFail(t *testing.T) {
	c := newCLI(t)

	for _, args := range [][]string{
		{"recipe", "add", "Rotor", "zero"},
		{"recipe", "add", "Rotor", "-4"},
		{"recipe", "list", "one"},
		{"calc"},
		{"calc", "1", "0"},
	} {
		_, errOut, code := c.exec(args...)
		if code != 1 {
			t.Fatalf("args %v: expected exit code 1, got %d", args, code)
		}
		if !strings.HasPrefix(errOut, "Error:") {
			t.Fatalf("args %v: expected an error on stderr, got %q", args, errOut)
		}
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	c := newCLI(t)

	expectOutput(t, c.mustExec("recipe", "seed"), "Seeded 14 recipe(s) and 14 dependency(ies)\n")
	expectOutput(t, c.mustExec("recipe", "seed"), "Seeded 0 recipe(s) and 0 dependency(ies)\n")

	out := c.mustExec("recipe", "list")
	if !strings.HasPrefix(out, "Satisfactory Recipes\n001 Iron Ore\n002 Copper Ore\n") {
		t.Fatalf("unexpected listing:\n%s", out)
	}
}

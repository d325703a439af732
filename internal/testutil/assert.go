package testutil

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/crznodes/crz"
)

// Assert provides test assertions.
type Assert struct {
	t *testing.T
}

// NewAssert creates a new assert helper.
func NewAssert(t *testing.T) *Assert {
	return &Assert{t: t}
}

// Equal asserts that two values are deeply equal.
func (a *Assert) Equal(expected, actual any, msgAndArgs ...any) {
	a.t.Helper()
	if !reflect.DeepEqual(expected, actual) {
		a.fail(fmt.Sprintf("Expected: %v (%T)\nActual: %v (%T)", expected, expected, actual, actual), msgAndArgs...)
	}
}

// True asserts that a value is true.
func (a *Assert) True(value bool, msgAndArgs ...any) {
	a.t.Helper()
	if !value {
		a.fail("Expected true, but got false", msgAndArgs...)
	}
}

// False asserts that a value is false.
func (a *Assert) False(value bool, msgAndArgs ...any) {
	a.t.Helper()
	if value {
		a.fail("Expected false, but got true", msgAndArgs...)
	}
}

// Error asserts that an error occurred.
func (a *Assert) Error(err error, msgAndArgs ...any) {
	a.t.Helper()
	if err == nil {
		a.fail("Expected error, but got nil", msgAndArgs...)
	}
}

// ErrorIs asserts that err wraps target.
func (a *Assert) ErrorIs(err, target error, msgAndArgs ...any) {
	a.t.Helper()
	if !errors.Is(err, target) {
		a.fail(fmt.Sprintf("Expected error wrapping %v, but got: %v", target, err), msgAndArgs...)
	}
}

// NoError asserts that no error occurred.
func (a *Assert) NoError(err error, msgAndArgs ...any) {
	a.t.Helper()
	if err != nil {
		a.fail(fmt.Sprintf("Expected no error, but got: %v", err), msgAndArgs...)
	}
}

// Contains asserts that a string contains a substring.
func (a *Assert) Contains(s, substr string, msgAndArgs ...any) {
	a.t.Helper()
	if !strings.Contains(s, substr) {
		a.fail(fmt.Sprintf("Expected %q to contain %q", s, substr), msgAndArgs...)
	}
}

// Eventually asserts that a condition becomes true within a timeout.
func (a *Assert) Eventually(condition func() bool, timeout time.Duration, msgAndArgs ...any) {
	a.t.Helper()

	deadline := time.Now().Add(timeout)
	interval := timeout / 100
	if interval < time.Millisecond {
		interval = time.Millisecond
	}

	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(interval)
	}

	a.fail("Condition did not become true within timeout", msgAndArgs...)
}

func (a *Assert) fail(message string, msgAndArgs ...any) {
	if len(msgAndArgs) > 0 {
		if format, ok := msgAndArgs[0].(string); ok && len(msgAndArgs) > 1 {
			message = fmt.Sprintf(format, msgAndArgs[1:]...) + "\n" + message
		} else if len(msgAndArgs) == 1 {
			message = fmt.Sprintf("%v\n%s", msgAndArgs[0], message)
		}
	}
	a.t.Fatal(message)
}

// GraphAssert provides graph-specific assertions.
type GraphAssert struct {
	*Assert
}

// NewGraphAssert creates graph-specific assertions.
func NewGraphAssert(t *testing.T) *GraphAssert {
	return &GraphAssert{
		Assert: NewAssert(t),
	}
}

// GraphCompletes asserts that a graph runs without error and returns its
// final output.
func (ga *GraphAssert) GraphCompletes(graph *crz.Graph, input any) any {
	ga.t.Helper()

	result, err := graph.Run(context.Background(), input)
	ga.NoError(err, "Graph execution failed")

	return result
}

// GraphFails asserts that a graph fails with an error.
func (ga *GraphAssert) GraphFails(graph *crz.Graph, input any) error {
	ga.t.Helper()

	_, err := graph.Run(context.Background(), input)
	ga.Error(err, "Expected graph to fail")

	return err
}

// StoreContains asserts that a store contains a key and returns its value.
func (ga *GraphAssert) StoreContains(store crz.StoreReader, key string) any {
	ga.t.Helper()

	value, exists := store.Get(context.Background(), key)
	ga.True(exists, "Expected store to contain key: %s", key)

	return value
}

// StoreNotContains asserts that a store does not contain a key.
func (ga *GraphAssert) StoreNotContains(store crz.StoreReader, key string) {
	ga.t.Helper()

	_, exists := store.Get(context.Background(), key)
	ga.False(exists, "Expected store to not contain key: %s", key)
}

// Output asserts that a node's output slot was stored with value want.
func (ga *GraphAssert) Output(store crz.StoreReader, node, slot string, want any) {
	ga.t.Helper()
	ga.Equal(want, ga.StoreContains(store, crz.OutputKey(node, slot)), "output %s.%s", node, slot)
}

// OutputBlocked asserts that a node's output slot holds the blocked marker.
func (ga *GraphAssert) OutputBlocked(store crz.StoreReader, node, slot string) {
	ga.t.Helper()
	v := ga.StoreContains(store, crz.OutputKey(node, slot))
	ga.True(crz.IsBlocked(v), "Expected %s.%s to be blocked, got %v", node, slot, v)
}

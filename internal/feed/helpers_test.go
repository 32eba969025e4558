package feed_test

import "testing"

// assertEqual fails the test if the values differ.
func assertEqual(t *testing.T, expected, actual string) {
	t.Helper()

	if expected != actual {
		t.Errorf("expected %q, got %q", expected, actual)
	}
}

// requireLen fails the test immediately if the slice length does not match.
func requireLen[T any](t *testing.T, items []T, expected int) {
	t.Helper()

	if len(items) != expected {
		t.Fatalf("expected %d items, got %d", expected, len(items))
	}
}

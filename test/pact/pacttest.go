//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "order-backend"
	ConsumerName = "order-dispatch"

	StateMenuAvailable  = "menu is available"
	StateAcceptsOrders  = "backend accepts orders"
	StateEnforcesLimits = "backend enforces order limits"
)

const (
	// UUIDPattern matches the order ids the consumer generates.
	UUIDPattern = `^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`

	ExampleOrderID  = "6f1c2a7e-3b7d-4e55-9a1e-0d6c1f1b2a11"
	ExampleDishID   = "1"
	AcceptedQty     = "2"
	OverLimitQty    = "11"
	OverLimitReason = "Maximum quantity per item is 10"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the dispatch consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleMenuItem is the catalog entry the consumer expects at least once.
func ExampleMenuItem() map[string]any {
	return map[string]any{
		"Id":         ExampleDishID,
		"Article":    "HOT001",
		"Name":       "Борщ с пампушками",
		"Price":      280.5,
		"IsWeighted": false,
		"FullPath":   "Горячие блюда\\Супы",
	}
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}

package core

import (
	"testing"

	"github.com/nicholaswilven/book-recsys/pkg/utils"
)

func TestCatalog(t *testing.T) {
	books := []Book{
		{ISBN: "A1", Title: "Dune", Year: 1990},
		{ISBN: "A2", Title: "Dune", Year: 2005}, // 再版，按加载顺序让位
		{ISBN: "B1", Title: "Emma", Year: 1980},
	}
	c := NewCatalog(books)

	if c.Len() != 3 {
		t.Errorf("Len() = %d, want 3", c.Len())
	}

	b, ok := c.ByTitle("Dune")
	if !ok || b.ISBN != "A1" {
		t.Errorf("ByTitle(Dune) = (%+v, %v), want first edition A1", b, ok)
	}
	if _, ok := c.ByTitle("Nothing"); ok {
		t.Error("ByTitle(Nothing) should report absence")
	}

	got := c.Resolve([]string{"Emma", "Dune", "Emma", "Ghost"})
	if len(got) != 2 || got[0].Title != "Emma" || got[1].Title != "Dune" {
		t.Errorf("Resolve() = %+v, want [Emma Dune]", got)
	}
}

func TestUser_AgeKnown(t *testing.T) {
	if (User{Age: 0}).AgeKnown() {
		t.Error("age 0 must read as unknown")
	}
	if !(User{Age: 34}).AgeKnown() {
		t.Error("age 34 must read as known")
	}
}

func TestItem_PutLabel(t *testing.T) {
	it := NewItem("Dune")
	it.PutLabel("recall_source", utils.Label{Value: "pop", Source: "recall"})
	it.PutLabel("recall_source", utils.Label{Value: "i2i", Source: "recall"})

	got := it.Labels["recall_source"]
	if got.Value != "pop|i2i" {
		t.Errorf("Value = %q, want pop|i2i", got.Value)
	}
	if got.Source != "recall,recall" {
		t.Errorf("Source = %q, want recall,recall", got.Source)
	}
}

func TestDomainErrorHelpers(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
		want  bool
	}{
		{"model unavailable", NewDomainError(ModuleModel, ErrorCodeModelUnavailable, "x"), IsModelUnavailable, true},
		{"not found", NewDomainError(ModuleModel, ErrorCodeNotFound, "x"), IsNotFound, true},
		{"no data", NewDomainError(ModuleModel, ErrorCodeNoData, "x"), IsNoData, true},
		{"invalid user", NewDomainError(ModuleEngine, ErrorCodeInvalidUser, "x"), IsInvalidUser, true},
		{"invalid config", NewDomainError(ModuleModel, ErrorCodeInvalidConfig, "x"), IsInvalidConfig, true},
		{"nil error", nil, IsNotFound, false},
		{"code mismatch", NewDomainError(ModuleModel, ErrorCodeNoData, "x"), IsNotFound, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.check(tt.err); got != tt.want {
				t.Errorf("check(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestIsRecoverable(t *testing.T) {
	recoverable := []string{ErrorCodeModelUnavailable, ErrorCodeNotFound, ErrorCodeNoData}
	for _, code := range recoverable {
		if !IsRecoverable(NewDomainError(ModuleModel, code, "x")) {
			t.Errorf("%s should be recoverable", code)
		}
	}
	fatal := []string{ErrorCodeInvalidUser, ErrorCodeInvalidConfig}
	for _, code := range fatal {
		if IsRecoverable(NewDomainError(ModuleEngine, code, "x")) {
			t.Errorf("%s should not be recoverable", code)
		}
	}
	if IsRecoverable(nil) {
		t.Error("nil is not recoverable")
	}
}

func TestStoreErrorHelpers(t *testing.T) {
	if !IsStoreNotFound(ErrStoreNotFound) {
		t.Error("ErrStoreNotFound should satisfy IsStoreNotFound")
	}
	if !IsStoreNotSupported(ErrStoreNotSupported) {
		t.Error("ErrStoreNotSupported should satisfy IsStoreNotSupported")
	}
	// 非 store 模块的 NOT_FOUND 不算 store miss
	if IsStoreNotFound(NewDomainError(ModuleModel, ErrorCodeNotFound, "x")) {
		t.Error("model NOT_FOUND must not read as store miss")
	}
}

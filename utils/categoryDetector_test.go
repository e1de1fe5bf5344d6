package utils

import (
	"reflect"
	"testing"
)

func TestDetectCategory(t *testing.T) {
	cases := []struct {
		name        string
		description string
		txType      string
		want        string
	}{
		{"grocery store", "Compras no Supermercado Extra", "expense", CategoryFood},
		{"accented salary", "Salário mensal", "income", CategorySalary},
		{"salary sentence", "Pagamento do salário mensal", "income", CategorySalary},
		{"uppercase accented", "SALÁRIO", "income", CategorySalary},
		{"ride share", "Uber para o trabalho", "expense", CategoryTransport},
		{"pharmacy", "Farmácia São João", "expense", CategoryHealth},
		{"streaming", "Netflix mensal", "expense", CategoryLeisure},
		{"rent", "Aluguel do apartamento", "expense", CategoryFixedExpenses},
		{"stock purchase", "Compra de ações", "income", CategoryInvestments},
		{"empty expense", "", "expense", CategoryFixedExpenses},
		{"empty income", "", "income", CategoryOther},
		{"unknown expense", "zzz nada a ver", "expense", CategoryFixedExpenses},
		{"unknown income", "zzz nada a ver", "income", CategoryOther},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DetectCategory(tc.description, tc.txType)
			if got != tc.want {
				t.Fatalf("DetectCategory(%q, %q) = %q, want %q", tc.description, tc.txType, got, tc.want)
			}
		})
	}
}

func TestDetectCategory_IncomePriority(t *testing.T) {
	// "pagamento" appears both under Salary and under Other; income must
	// resolve to Salary, expense falls through to the first rule-table hit.
	if got := DetectCategory("Pagamento da empresa", "income"); got != CategorySalary {
		t.Fatalf("income pagamento = %q, want %q", got, CategorySalary)
	}
	if got := DetectCategory("Pagamento da empresa", "expense"); got != CategorySalary {
		t.Fatalf("expense pagamento = %q, want %q (first rule-table hit)", got, CategorySalary)
	}
}

func TestSuggestCategories(t *testing.T) {
	// Matches multiple rules, capped at three, rule-table order.
	got := SuggestCategories("academia com musica e jogos", "expense")
	want := []string{CategoryHealth, CategoryEducation, CategoryLeisure}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("suggestions = %v, want %v", got, want)
	}
}

func TestSuggestCategories_UtilityBill(t *testing.T) {
	got := SuggestCategories("conta de luz e água", "expense")
	found := false
	for _, c := range got {
		if c == CategoryFixedExpenses {
			found = true
		}
	}
	if !found {
		t.Fatalf("suggestions %v should include %q", got, CategoryFixedExpenses)
	}
}

func TestSuggestCategories_FallsBackToTypeDefault(t *testing.T) {
	if got := SuggestCategories("zzz", "expense"); !reflect.DeepEqual(got, []string{CategoryFixedExpenses}) {
		t.Fatalf("expense fallback = %v", got)
	}
	if got := SuggestCategories("", "income"); !reflect.DeepEqual(got, []string{CategoryOther}) {
		t.Fatalf("income fallback = %v", got)
	}
}

func TestFoldDescription(t *testing.T) {
	if got := foldDescription("Café da Manhã"); got != "cafe da manha" {
		t.Fatalf("foldDescription = %q", got)
	}
}

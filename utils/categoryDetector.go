package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Transaction category labels. Order matters: detection scans the rule
// table top to bottom and the first keyword hit wins.
const (
	CategorySalary         = "Salary"
	CategoryFixedExpenses  = "Fixed Expenses"
	CategoryFood           = "Food"
	CategoryTransport      = "Transport"
	CategoryHealth         = "Health"
	CategoryEducation      = "Education"
	CategoryLeisure        = "Leisure"
	CategoryClothing       = "Clothing"
	CategoryHome           = "Home"
	CategoryInvestments    = "Investments"
	CategoryOther          = "Other"
	CategoryOpeningBalance = "Opening Balance"
	CategoryUncategorized  = "Uncategorized"
)

type categoryRule struct {
	Category string
	Keywords []string
}

// incomeCategories get scanned first for income transactions so that e.g.
// "pagamento" lands in Salary before the generic Other keywords see it.
var incomeCategories = map[string]bool{
	CategorySalary:      true,
	CategoryInvestments: true,
}

var categoryRules = buildCategoryRules()

func buildCategoryRules() []categoryRule {
	rules := []categoryRule{
		{CategorySalary, []string{
			"salario", "salarios", "remuneracao", "pagamento", "proventos",
			"ordenado", "vencimento", "contracheque", "contra-cheque", "holerite",
			"13o", "13 salario", "13o salario", "ferias", "bonus",
			"comissao", "premio", "gratificacao",
		}},
		{CategoryFixedExpenses, []string{
			"luz", "energia", "eletrica", "eletricidade", "conta de luz",
			"agua", "agua e esgoto", "saneamento",
			"gas", "gas natural", "gas de cozinha",
			"internet", "wi-fi", "wifi", "banda larga", "fibra optica",
			"telefone", "celular", "plano de celular", "plano de telefone",
			"aluguel", "rent", "moradia", "condominio",
			"seguro", "seguros", "seguro auto", "seguro carro", "seguro casa",
			"previdencia", "inss", "contribuicao",
		}},
		{CategoryFood, []string{
			"supermercado", "super mercado", "mercado", "feira", "feira livre",
			"restaurante", "restaurantes", "lanche", "lanches", "fast food",
			"pizza", "hamburguer", "sorvete", "doces", "chocolate",
			"cafe", "cafezinho", "cafe da manha",
			"almoco", "janta", "jantar", "refeicao",
			"padaria", "padarias", "pao", "leite", "queijo", "carne",
		}},
		{CategoryTransport, []string{
			"uber", "99", "taxi", "cabify", "lyft", "passagem", "passagens",
			"onibus", "metro", "trem", "trens", "vlt",
			"combustivel", "gasolina", "etanol", "diesel",
			"estacionamento", "parking", "pedagio", "ipva",
			"manutencao", "oleo", "pneu", "pneus",
			"lavagem", "lavar carro", "posto", "posto de gasolina",
		}},
		{CategoryHealth, []string{
			"farmacia", "remedio", "medicamento", "medicamentos",
			"consulta", "consultas", "medico", "dentista", "psicologo",
			"exame", "exames", "laboratorio", "hospital", "clinica",
			"plano de saude", "unimed", "amil", "sulamerica",
			"acupuntura", "fisioterapia", "massagem", "pilates", "academia", "gym",
		}},
		{CategoryEducation, []string{
			"escola", "colegio", "universidade", "faculdade", "curso", "cursos",
			"mensalidade", "matricula", "livro", "livros", "material escolar",
			"ingles", "espanhol", "frances", "alemao",
			"musica", "piano", "violao", "guitarra",
			"teatro", "danca", "ballet", "bale", "esporte", "esportes",
		}},
		{CategoryLeisure, []string{
			"cinema", "teatro", "show", "shows", "concerto", "concertos",
			"bar", "pub", "balada", "boate", "discoteca", "karaoke",
			"viagem", "viagens", "hotel", "hospedagem", "passagem aerea",
			"parque", "parques", "museu", "museus", "exposicao",
			"jogo", "jogos", "video game", "videogame", "netflix", "spotify", "youtube",
		}},
		{CategoryClothing, []string{
			"roupa", "roupas", "camisa", "camisas", "calca", "calcas",
			"sapato", "sapatos", "tenis", "bolsa", "bolsas", "mochila",
			"acessorio", "acessorios", "joia", "joias", "relogio",
			"perfume", "cosmetico", "cosmeticos", "maquiagem", "cabelo", "cabeleireiro",
		}},
		{CategoryHome, []string{
			"moveis", "eletrodomestico", "eletrodomesticos", "geladeira",
			"fogao", "microondas", "maquina de lavar",
			"aspirador", "vassoura", "rodo", "detergente", "sabao",
			"decoracao", "cortina", "cortinas", "tapete", "tapetes",
			"reforma", "reformas", "pintura", "pintar", "jardim", "jardinagem",
		}},
		{CategoryInvestments, []string{
			"acoes", "acao", "fii", "fiis", "fundos imobiliarios",
			"tesouro", "cdb", "lci", "lca", "poupanca", "investimento",
			"cripto", "bitcoin", "ethereum", "crypto", "bolsa", "b3", "bovespa",
		}},
		{CategoryOther, []string{
			"presente", "presentes", "doacao", "caridade", "igreja",
			"imposto", "impostos", "iptu", "iptr", "multa", "multas",
			"emprestimo", "financiamento", "cartao",
			"despesa", "despesas", "gasto", "gastos", "pagamento", "pagamentos",
		}},
	}
	// Keywords are matched against fold()ed descriptions, so fold them too.
	for i := range rules {
		for j, kw := range rules[i].Keywords {
			rules[i].Keywords[j] = foldDescription(kw)
		}
	}
	return rules
}

var descriptionFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// foldDescription lowercases and strips combining diacritical marks,
// so "Salário" and "salario" compare equal.
func foldDescription(s string) string {
	folded, _, err := transform.String(descriptionFolder, strings.ToLower(s))
	if err != nil {
		return strings.ToLower(s)
	}
	return folded
}

// DetectCategory picks the category for a transaction description.
// Income descriptions are checked against the income categories first,
// then all categories in rule-table order. First keyword hit wins.
func DetectCategory(description string, transactionType string) string {
	desc := foldDescription(description)
	if desc != "" {
		if transactionType == "income" {
			for _, rule := range categoryRules {
				if !incomeCategories[rule.Category] {
					continue
				}
				for _, kw := range rule.Keywords {
					if strings.Contains(desc, kw) {
						return rule.Category
					}
				}
			}
		}

		for _, rule := range categoryRules {
			for _, kw := range rule.Keywords {
				if strings.Contains(desc, kw) {
					return rule.Category
				}
			}
		}
	}

	if transactionType == "income" {
		return CategoryOther
	}
	return CategoryFixedExpenses
}

// SuggestCategories returns up to 3 candidate categories for a description,
// in rule-table order. Falls back to the type default when nothing matches.
func SuggestCategories(description string, transactionType string) []string {
	desc := foldDescription(description)
	var suggestions []string
	if desc != "" {
		for _, rule := range categoryRules {
			for _, kw := range rule.Keywords {
				if strings.Contains(desc, kw) {
					suggestions = append(suggestions, rule.Category)
					break
				}
			}
		}
	}
	if len(suggestions) == 0 {
		if transactionType == "income" {
			suggestions = append(suggestions, CategoryOther)
		} else {
			suggestions = append(suggestions, CategoryFixedExpenses)
		}
	}
	if len(suggestions) > 3 {
		suggestions = suggestions[:3]
	}
	return suggestions
}

// AllCategories returns the category labels in rule-table order.
func AllCategories() []string {
	out := make([]string, 0, len(categoryRules))
	for _, rule := range categoryRules {
		out = append(out, rule.Category)
	}
	return out
}

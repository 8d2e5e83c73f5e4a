// Package reconciliation suggests which contract a bank movement pays.
package reconciliation

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/sgemaster/sge-backend/internal/model"
)

// Confidence scores, highest first.
const (
	ScoreContractNumber = 100
	ScoreAmountAndName  = 85
	ScoreName           = 60
	ScoreAmount         = 40
)

var digitRun = regexp.MustCompile(`\d+`)

type Matcher struct {
	contracts []model.Contract
	byNumber  map[string]int
	names     [][]string
}

func NewMatcher(contracts []model.Contract) *Matcher {
	m := &Matcher{
		contracts: contracts,
		byNumber:  make(map[string]int, len(contracts)),
		names:     make([][]string, len(contracts)),
	}
	for i, c := range contracts {
		if c.ContractNumber != "" {
			if _, exists := m.byNumber[c.ContractNumber]; !exists {
				m.byNumber[c.ContractNumber] = i
			}
		}
		m.names[i] = nameTokens(c.DisplayName)
	}
	return m
}

// Suggest fills Suggested and Score on every transaction.
func (m *Matcher) Suggest(txns []model.BankTransaction) []model.BankTransaction {
	out := make([]model.BankTransaction, len(txns))
	for i, txn := range txns {
		idx, score := m.best(txn)
		txn.Score = score
		txn.Suggested = nil
		if idx >= 0 {
			c := m.contracts[idx]
			txn.Suggested = &model.ContractRef{ContractNumber: c.ContractNumber, DisplayName: c.DisplayName}
		}
		out[i] = txn
	}
	return out
}

func (m *Matcher) best(txn model.BankTransaction) (int, int) {
	// Strategy 1: contract number quoted in the memo.
	for _, number := range digitRun.FindAllString(txn.Memo, -1) {
		if idx, ok := m.byNumber[number]; ok {
			return idx, ScoreContractNumber
		}
	}

	payer := tokenSet(nameTokens(txn.Payer))
	bestIdx, bestScore := -1, 0
	amountOnly := -1
	amountHits := 0

	for i, c := range m.contracts {
		priceMatch := txn.Amount.Equal(decimal.NewFromFloat(c.Price))
		nameMatch := namesOverlap(m.names[i], payer)

		score := 0
		switch {
		case priceMatch && nameMatch:
			score = ScoreAmountAndName
		case nameMatch:
			score = ScoreName
		case priceMatch:
			amountHits++
			amountOnly = i
		}
		if score > bestScore {
			bestIdx, bestScore = i, score
		}
	}

	if bestIdx >= 0 {
		return bestIdx, bestScore
	}
	// Strategy 4: the amount alone, only when it points at a single contract.
	if amountHits == 1 {
		return amountOnly, ScoreAmount
	}
	return -1, 0
}

// namesOverlap requires two shared tokens, or all of them for short names.
func namesOverlap(name []string, payer map[string]struct{}) bool {
	if len(name) == 0 || len(payer) == 0 {
		return false
	}
	shared := 0
	for _, token := range name {
		if _, ok := payer[token]; ok {
			shared++
		}
	}
	need := 2
	if len(name) < need {
		need = len(name)
	}
	return shared >= need
}

var stopWords = map[string]struct{}{
	"SA": {}, "S": {}, "A": {}, "LTDA": {}, "SPA": {}, "DE": {}, "DEL": {}, "LA": {}, "LOS": {}, "Y": {},
}

func nameTokens(name string) []string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), name)
	if err != nil {
		folded = name
	}
	fields := strings.FieldsFunc(strings.ToUpper(folded), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, stop := stopWords[f]; stop || len(f) < 3 {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

func tokenSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

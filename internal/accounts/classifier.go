// Package accounts classifies general-ledger account names into their
// accounting family and derives which side (debit or credit) normally
// carries the account's balance.
package accounts

import (
	"sort"
	"strings"
	"unicode"
)

// Type is an account family.
type Type string

const (
	Asset     Type = "asset"
	Expense   Type = "expense"
	Liability Type = "liability"
	Equity    Type = "equity"
	Revenue   Type = "revenue"
	Unknown   Type = "unknown"
)

// Side is the preferred amount side of an account.
type Side int

const (
	// SideLarger takes whichever of debit or credit is larger.
	SideLarger Side = iota
	SideDebit
	SideCredit
)

// String returns the side name.
func (s Side) String() string {
	switch s {
	case SideDebit:
		return "debit"
	case SideCredit:
		return "credit"
	default:
		return "larger"
	}
}

// familyOrder is the order in which families are tested. Liability comes
// first so compound names such as "미지급비용" are not read as expenses.
var familyOrder = []Type{Liability, Equity, Revenue, Expense, Asset}

var defaultFamilies = map[Type][]string{
	Liability: {"미지급", "예수금", "차입금", "사채", "부채", "선수금", "매입채무", "외상매입금", "지급어음", "충당부채",
		"liability", "payable", "borrowing", "accrued", "unearned"},
	Equity:  {"자본금", "자본잉여금", "이익잉여금", "자본조정", "기타포괄", "자본", "equity", "capital", "retained earnings"},
	Revenue: {"매출", "수익", "잡이익", "이익", "수입", "revenue", "sales", "income", "gain"},
	Expense: {"비용", "원가", "급여", "임금", "상여", "복리후생", "여비", "교통비", "접대비", "통신비", "수도광열", "세금과공과",
		"감가상각", "임차료", "수선비", "보험료", "차량유지", "운반비", "소모품", "수수료", "광고선전", "이자비용", "잡손실", "손실",
		"expense", "cost", "salary", "wage", "depreciation", "rent", "fee", "loss"},
	Asset: {"현금", "예금", "적금", "매출채권", "외상매출금", "받을어음", "미수", "선급", "재고", "상품", "제품", "원재료",
		"토지", "건물", "비품", "차량운반구", "기계장치", "보증금", "자산", "대여금",
		"cash", "deposit", "receivable", "inventory", "prepaid", "equipment", "asset", "land", "building"},
}

// defaultExceptions pin compound names that the family keywords would
// otherwise misread (a receivable contains "매출", a prepaid expense
// contains "비용").
var defaultExceptions = map[string]Type{
	"외상매출금":               Asset,
	"매출채권":                Asset,
	"미수수익":                Asset,
	"미수금":                 Asset,
	"선급비용":                Asset,
	"선급금":                 Asset,
	"매출원가":                Expense,
	"매출할인":                Revenue,
	"선수수익":                Liability,
	"미지급비용":               Liability,
	"이자수익":                Revenue,
	"이자비용":                Expense,
	"cost of sales":       Expense,
	"cost of goods sold":  Expense,
	"accounts receivable": Asset,
	"prepaid expense":     Asset,
	"accrued expense":     Liability,
}

// Classifier maps account names to families. The zero value is not usable;
// build one with NewClassifier.
type Classifier struct {
	families   map[Type][]string
	exceptions []exception
}

type exception struct {
	keyword string
	family  Type
}

// NewClassifier returns a classifier with the built-in Korean/English
// vocabulary.
func NewClassifier() *Classifier {
	c := &Classifier{families: make(map[Type][]string, len(defaultFamilies))}
	for t, words := range defaultFamilies {
		c.families[t] = normalizeAll(words)
	}
	for kw, t := range defaultExceptions {
		c.exceptions = append(c.exceptions, exception{keyword: normalize(kw), family: t})
	}
	c.sortExceptions()
	return c
}

// Extend returns a copy of c with extra keywords appended to the named
// families. Unknown family names are ignored.
func (c *Classifier) Extend(extra map[string][]string) *Classifier {
	out := &Classifier{
		families:   make(map[Type][]string, len(c.families)),
		exceptions: append([]exception(nil), c.exceptions...),
	}
	for t, words := range c.families {
		out.families[t] = append([]string(nil), words...)
	}
	for name, words := range extra {
		t := ParseType(name)
		if t == Unknown {
			continue
		}
		out.families[t] = append(out.families[t], normalizeAll(words)...)
	}
	return out
}

// sortExceptions orders exceptions longest keyword first so the most
// specific compound wins.
func (c *Classifier) sortExceptions() {
	sort.SliceStable(c.exceptions, func(i, j int) bool {
		li, lj := len([]rune(c.exceptions[i].keyword)), len([]rune(c.exceptions[j].keyword))
		if li != lj {
			return li > lj
		}
		return c.exceptions[i].keyword < c.exceptions[j].keyword
	})
}

// Classify returns the family of an account name, or Unknown.
func (c *Classifier) Classify(account string) Type {
	n := normalize(account)
	if n == "" {
		return Unknown
	}
	for _, e := range c.exceptions {
		if strings.Contains(n, e.keyword) {
			return e.family
		}
	}
	for _, t := range familyOrder {
		for _, kw := range c.families[t] {
			if kw != "" && strings.Contains(n, kw) {
				return t
			}
		}
	}
	return Unknown
}

// PreferredSide returns the side that normally carries the balance of an
// account family: debit for assets and expenses, credit for liabilities,
// equity and revenue.
func PreferredSide(t Type) Side {
	switch t {
	case Asset, Expense:
		return SideDebit
	case Liability, Equity, Revenue:
		return SideCredit
	default:
		return SideLarger
	}
}

// SideFor classifies the account and returns its preferred side.
func (c *Classifier) SideFor(account string) Side {
	return PreferredSide(c.Classify(account))
}

// ParseType parses a family name, returning Unknown for anything else.
func ParseType(s string) Type {
	switch t := Type(strings.ToLower(strings.TrimSpace(s))); t {
	case Asset, Expense, Liability, Equity, Revenue:
		return t
	default:
		return Unknown
	}
}

func normalize(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

func normalizeAll(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if n := normalize(w); n != "" {
			out = append(out, n)
		}
	}
	return out
}

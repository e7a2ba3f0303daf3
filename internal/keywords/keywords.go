// Package keywords holds the bilingual (Korean/English) header vocabulary used
// to recognize ledger columns. A Dictionary is plain data: matchers in other
// packages ask it which synonyms belong to a semantic role.
package keywords

import (
	"strings"
	"unicode"
)

// Role is a semantic column role.
type Role string

const (
	RoleDate           Role = "date"
	RoleAccount        Role = "account"
	RoleVendor         Role = "vendor"
	RoleDescription    Role = "description"
	RoleDebit          Role = "debit"
	RoleCredit         Role = "credit"
	RoleBalance        Role = "balance"
	RoleAmount         Role = "amount"
	RoleCode           Role = "code"
	RoleContent        Role = "content"
	RoleVoucher        Role = "voucher"
	RoleClassification Role = "classification"
)

// AllRoles lists every role the dictionary knows.
var AllRoles = []Role{
	RoleDate, RoleAccount, RoleVendor, RoleDescription, RoleDebit, RoleCredit,
	RoleBalance, RoleAmount, RoleCode, RoleContent, RoleVoucher, RoleClassification,
}

// ParseRole maps a role name, case-insensitively, to its Role.
func ParseRole(name string) (Role, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, r := range AllRoles {
		if string(r) == name {
			return r, true
		}
	}
	return "", false
}

// HeaderCompanionRoles are the keyword families that, besides a date column,
// make a row look like a ledger header.
var HeaderCompanionRoles = []Role{
	RoleDescription, RoleVendor, RoleDebit, RoleCredit, RoleBalance, RoleAmount, RoleCode, RoleContent,
}

var defaultRoles = map[Role][]string{
	RoleDate:           {"일자", "날짜", "전표일자", "거래일자", "회계일자", "년월일", "월일", "date", "posting date", "transaction date"},
	RoleAccount:        {"계정과목", "계정명", "계정", "과목", "account", "account name", "gl account"},
	RoleVendor:         {"거래처", "거래처명", "상호", "vendor", "customer", "counterparty", "partner"},
	RoleDescription:    {"적요", "적요내용", "description", "memo", "remarks", "narration"},
	RoleDebit:          {"차변", "차변금액", "debit", "debit amount"},
	RoleCredit:         {"대변", "대변금액", "credit", "credit amount"},
	RoleBalance:        {"잔액", "잔고", "balance"},
	RoleAmount:         {"금액", "amount"},
	RoleCode:           {"코드", "code"},
	RoleContent:        {"내용", "content"},
	RoleVoucher:        {"전표번호", "전표no", "voucher", "voucher no", "entry no", "journal no", "document no"},
	RoleClassification: {"구분", "차대구분", "classification", "dr/cr"},
}

var defaultTitles = []string{"총계정원장", "계정별원장", "거래처원장", "분개장", "general ledger", "ledger"}

// Dictionary maps each role to its synonym list. Keyword order is
// significant: earlier keywords win when several match.
type Dictionary struct {
	roles  map[Role][]string
	titles []string
}

// Default returns the built-in Korean/English dictionary.
func Default() *Dictionary {
	d := &Dictionary{roles: make(map[Role][]string, len(defaultRoles))}
	for role, words := range defaultRoles {
		d.roles[role] = append([]string(nil), words...)
	}
	d.titles = append([]string(nil), defaultTitles...)
	return d
}

// Keywords returns the synonyms for role in priority order.
func (d *Dictionary) Keywords(role Role) []string {
	return append([]string(nil), d.roles[role]...)
}

// Titles returns document-title literals such as ledger banners.
func (d *Dictionary) Titles() []string {
	return append([]string(nil), d.titles...)
}

// Extend returns a copy of d with extra synonyms appended after the built-in
// ones, so built-in keywords keep priority. Duplicates are ignored.
func (d *Dictionary) Extend(extra map[Role][]string, titles []string) *Dictionary {
	out := &Dictionary{roles: make(map[Role][]string, len(d.roles))}
	for role, words := range d.roles {
		out.roles[role] = append([]string(nil), words...)
	}
	out.titles = append([]string(nil), d.titles...)

	for role, words := range extra {
		for _, w := range words {
			if !containsNormalized(out.roles[role], w) {
				out.roles[role] = append(out.roles[role], w)
			}
		}
	}
	for _, t := range titles {
		if !containsNormalized(out.titles, t) {
			out.titles = append(out.titles, t)
		}
	}
	return out
}

// Matches reports whether the normalized cell contains any keyword of role.
func (d *Dictionary) Matches(role Role, cell string) bool {
	n := Normalize(cell)
	if n == "" {
		return false
	}
	for _, kw := range d.roles[role] {
		if k := Normalize(kw); k != "" && strings.Contains(n, k) {
			return true
		}
	}
	return false
}

// MatchesAny reports whether the cell matches any of the given roles.
func (d *Dictionary) MatchesAny(roles []Role, cell string) bool {
	for _, r := range roles {
		if d.Matches(r, cell) {
			return true
		}
	}
	return false
}

// IsTitle reports whether the cell is a document-title literal.
func (d *Dictionary) IsTitle(cell string) bool {
	n := Normalize(cell)
	if n == "" {
		return false
	}
	for _, t := range d.titles {
		if k := Normalize(t); strings.Contains(n, k) {
			return true
		}
	}
	return false
}

// Normalize strips all whitespace and lowercases s.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

func containsNormalized(list []string, s string) bool {
	n := Normalize(s)
	for _, v := range list {
		if Normalize(v) == n {
			return true
		}
	}
	return false
}

// summaryMarkers flag running/cumulative total rows wherever they appear in
// a cell.
var summaryMarkers = []string{"월계", "누계"}

// bannerLiterals are bracketed summary banners, compared after whitespace
// removal.
var bannerLiterals = []string{"[월계]", "[누계]", "[전기이월]", "[차기이월]", "[합계]"}

var bracketStripper = strings.NewReplacer("[", "", "]", "", "(", "", ")", "", "<", "", ">", "")

// IsSummaryLabel reports whether a cell value marks a monthly/cumulative
// total or a bracketed carry-forward banner rather than a transaction.
func IsSummaryLabel(cell string) bool {
	n := Normalize(cell)
	if n == "" {
		return false
	}
	for _, b := range bannerLiterals {
		if n == b {
			return true
		}
	}
	stripped := bracketStripper.Replace(n)
	for _, m := range summaryMarkers {
		if strings.Contains(stripped, m) {
			return true
		}
	}
	return false
}

package bot

import (
	"fmt"
	"slices"
	"strings"
	"unicode"

	"compintel/internal/model"
	"compintel/internal/view"
)

// Args holds the parsed arguments of a command: bare words in order and
// key=value options.
type Args struct {
	Words []string
	Opts  map[string]string
}

// Text joins the bare words with single spaces.
func (a Args) Text() string {
	return strings.Join(a.Words, " ")
}

// ParseArgs splits a command argument string into words and key=value
// options. Double quotes group words, so title="GPU fleet" is one option.
// A token whose part before '=' is not a plain name, such as a URL with a
// query string, stays a word.
func ParseArgs(args string) (Args, error) {
	tokens, err := splitTokens(args)
	if err != nil {
		return Args{}, err
	}
	a := Args{Opts: map[string]string{}}
	for _, tok := range tokens {
		key, value, ok := strings.Cut(tok.text, "=")
		if !ok || tok.quotedKey || !isOptionName(key) {
			a.Words = append(a.Words, tok.text)
			continue
		}
		key = strings.ToLower(key)
		if key == "" {
			return Args{}, fmt.Errorf("missing option name in %q", tok.text)
		}
		if _, dup := a.Opts[key]; dup {
			return Args{}, fmt.Errorf("option %q given twice", key)
		}
		a.Opts[key] = value
	}
	return a, nil
}

// isOptionName accepts letters, digits, '-' and '_'. The empty name is
// accepted so that "=value" is reported as a missing option name.
func isOptionName(key string) bool {
	for _, r := range key {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' && r != '_' {
			return false
		}
	}
	return true
}

type token struct {
	text string
	// quotedKey is set when the '=' of the token sits inside quotes.
	quotedKey bool
}

func splitTokens(s string) ([]token, error) {
	var (
		out     []token
		cur     strings.Builder
		inQuote bool
		started bool
		eqSeen  bool
		eqInQ   bool
	)
	flush := func() {
		if started {
			out = append(out, token{text: cur.String(), quotedKey: eqInQ})
		}
		cur.Reset()
		started, eqSeen, eqInQ = false, false, false
	}
	for _, r := range s {
		switch {
		case r == '"':
			inQuote = !inQuote
			started = true
		case !inQuote && (r == ' ' || r == '\t' || r == '\n'):
			flush()
		default:
			if r == '=' && !eqSeen {
				eqSeen = true
				eqInQ = inQuote
			}
			cur.WriteRune(r)
			started = true
		}
	}
	if inQuote {
		return nil, fmt.Errorf("unterminated quote")
	}
	flush()
	return out, nil
}

// checkKeys rejects options outside allowed.
func (a Args) checkKeys(allowed ...string) error {
	for k := range a.Opts {
		if !slices.Contains(allowed, k) {
			return fmt.Errorf("unknown option %q, use: %s", k, strings.Join(allowed, ", "))
		}
	}
	return nil
}

func oneOf[T ~string](key, value string, allowed []T) (T, error) {
	if value == "" {
		return "", nil
	}
	v := T(strings.ToLower(value))
	if !slices.Contains(allowed, v) {
		names := make([]string, len(allowed))
		for i, a := range allowed {
			names[i] = string(a)
		}
		return "", fmt.Errorf("invalid %s %q, use: %s", key, value, strings.Join(names, ", "))
	}
	return v, nil
}

var (
	impacts       = []model.Impact{model.ImpactHigh, model.ImpactMedium, model.ImpactLow}
	strengths     = []model.Strength{model.StrengthStrong, model.StrengthModerate, model.StrengthWeak}
	statuses      = []model.InsightStatus{model.StatusNew, model.StatusPast}
	threatLevels  = []model.ThreatLevel{model.ThreatCritical, model.ThreatHigh, model.ThreatMedium, model.ThreatLow}
	compTypes     = []model.CompetitorType{model.CompetitorDirect, model.CompetitorIndirect, model.CompetitorEmerging}
	verifications = []model.VerificationStatus{
		model.VerificationVerified, model.VerificationPending,
		model.VerificationUnverified, model.VerificationRejected,
	}
)

// ParseInsightFilter reads the options of /insights. Bare words become the
// search text unless q= is given.
// Options: q, window, competitor, category, impact, status, verification, sort.
func ParseInsightFilter(a Args) (view.InsightFilter, view.SortMode, error) {
	if err := a.checkKeys("q", "window", "competitor", "category", "impact", "status", "verification", "sort"); err != nil {
		return view.InsightFilter{}, "", err
	}
	var (
		f   view.InsightFilter
		err error
	)
	f.Search = searchText(a)
	if f.Window, err = view.ParseWindow(a.Opts["window"]); err != nil {
		return view.InsightFilter{}, "", err
	}
	f.Competitor = strings.ToLower(a.Opts["competitor"])
	if f.Category, err = oneOf("category", a.Opts["category"], model.Categories); err != nil {
		return view.InsightFilter{}, "", err
	}
	if f.Impact, err = oneOf("impact", a.Opts["impact"], impacts); err != nil {
		return view.InsightFilter{}, "", err
	}
	if f.Status, err = oneOf("status", a.Opts["status"], statuses); err != nil {
		return view.InsightFilter{}, "", err
	}
	if f.Verification, err = oneOf("verification", a.Opts["verification"], verifications); err != nil {
		return view.InsightFilter{}, "", err
	}
	mode, err := view.ParseSort(a.Opts["sort"])
	if err != nil {
		return view.InsightFilter{}, "", err
	}
	return f, mode, nil
}

// ParseCompetitorInsightFilter reads the options of the insights tab of
// /competitor. The competitor is fixed by the page, so there is no
// competitor or search option.
func ParseCompetitorInsightFilter(a Args) (view.InsightFilter, error) {
	if err := a.checkKeys("window", "category", "impact", "status", "verification"); err != nil {
		return view.InsightFilter{}, err
	}
	f, _, err := ParseInsightFilter(Args{Opts: a.Opts})
	return f, err
}

// ParseSignalFilter reads the signal options of /signals and /competitor.
// Options: window, category, strength, sort.
func ParseSignalFilter(a Args) (view.SignalFilter, view.SortMode, error) {
	if err := a.checkKeys("window", "category", "strength", "sort"); err != nil {
		return view.SignalFilter{}, "", err
	}
	var (
		f   view.SignalFilter
		err error
	)
	if f.Window, err = view.ParseWindow(a.Opts["window"]); err != nil {
		return view.SignalFilter{}, "", err
	}
	if f.Category, err = oneOf("category", a.Opts["category"], model.Categories); err != nil {
		return view.SignalFilter{}, "", err
	}
	if f.Strength, err = oneOf("strength", a.Opts["strength"], strengths); err != nil {
		return view.SignalFilter{}, "", err
	}
	mode, err := view.ParseSort(a.Opts["sort"])
	if err != nil {
		return view.SignalFilter{}, "", err
	}
	return f, mode, nil
}

// ParseSourceFilter reads the options of /sources.
func ParseSourceFilter(a Args) (view.SourceFilter, error) {
	if err := a.checkKeys("q", "type", "competitor"); err != nil {
		return view.SourceFilter{}, err
	}
	typ, err := oneOf("type", a.Opts["type"], model.SourceTypes)
	if err != nil {
		return view.SourceFilter{}, err
	}
	return view.SourceFilter{
		Search:     searchText(a),
		Type:       typ,
		Competitor: strings.ToLower(a.Opts["competitor"]),
	}, nil
}

// ParseCompetitorFilter reads the options of /competitors.
func ParseCompetitorFilter(a Args) (view.CompetitorFilter, error) {
	if err := a.checkKeys("q", "threat", "type"); err != nil {
		return view.CompetitorFilter{}, err
	}
	threat, err := oneOf("threat", a.Opts["threat"], threatLevels)
	if err != nil {
		return view.CompetitorFilter{}, err
	}
	typ, err := oneOf("type", a.Opts["type"], compTypes)
	if err != nil {
		return view.CompetitorFilter{}, err
	}
	return view.CompetitorFilter{Search: searchText(a), Threat: threat, Type: typ}, nil
}

// ReviewArgs is the parsed form of /review.
type ReviewArgs struct {
	Tab    view.ReviewTab
	Filter view.ReviewFilter
	Order  view.ReviewSort
}

// ParseReviewArgs reads /review [tab] [category=] [competitor=] [sort=].
func ParseReviewArgs(a Args) (ReviewArgs, error) {
	if err := a.checkKeys("category", "competitor", "sort"); err != nil {
		return ReviewArgs{}, err
	}
	if len(a.Words) > 1 {
		return ReviewArgs{}, fmt.Errorf("usage: /review [pending|verified|rejected] [category=..] [competitor=..] [sort=impact|recent]")
	}
	var (
		r   ReviewArgs
		err error
	)
	tab := ""
	if len(a.Words) == 1 {
		tab = strings.ToLower(a.Words[0])
	}
	if r.Tab, err = view.ParseReviewTab(tab); err != nil {
		return ReviewArgs{}, err
	}
	if r.Filter.Category, err = oneOf("category", a.Opts["category"], model.Categories); err != nil {
		return ReviewArgs{}, err
	}
	r.Filter.Competitor = strings.ToLower(a.Opts["competitor"])
	if r.Order, err = view.ParseReviewSort(a.Opts["sort"]); err != nil {
		return ReviewArgs{}, err
	}
	return r, nil
}

// ParseSourcePatch reads the options of /editsource. At least one field is
// required.
func ParseSourcePatch(a Args) (model.SourcePatch, error) {
	if err := a.checkKeys("title", "url", "type", "competitor", "guidance"); err != nil {
		return model.SourcePatch{}, err
	}
	if len(a.Opts) == 0 {
		return model.SourcePatch{}, fmt.Errorf("nothing to change, use: title=, url=, type=, competitor=, guidance=")
	}
	var p model.SourcePatch
	if v, ok := a.Opts["title"]; ok {
		v = strings.TrimSpace(v)
		if v == "" {
			return model.SourcePatch{}, fmt.Errorf("title cannot be empty")
		}
		p.Title = &v
	}
	if v, ok := a.Opts["url"]; ok {
		v = strings.TrimSpace(v)
		if v == "" {
			return model.SourcePatch{}, fmt.Errorf("url cannot be empty")
		}
		p.URL = &v
	}
	if v, ok := a.Opts["type"]; ok {
		typ, err := oneOf("type", v, model.SourceTypes)
		if err != nil || typ == "" {
			return model.SourcePatch{}, fmt.Errorf("invalid type %q", v)
		}
		p.Type = &typ
	}
	if v, ok := a.Opts["competitor"]; ok {
		v = strings.ToLower(strings.TrimSpace(v))
		p.CompetitorID = &v
	}
	if v, ok := a.Opts["guidance"]; ok {
		v = strings.TrimSpace(v)
		p.Guidance = &v
	}
	return p, nil
}

// ParseIDArg extracts the leading record id from a command argument string.
func ParseIDArg(args string) (string, error) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return "", fmt.Errorf("id is required")
	}
	return fields[0], nil
}

// ParseIDText splits "<id> <text...>" and keeps the text as typed.
func ParseIDText(args string) (string, string, error) {
	s := strings.TrimSpace(args)
	if s == "" {
		return "", "", fmt.Errorf("id is required")
	}
	id, rest, _ := strings.Cut(s, " ")
	return id, strings.TrimSpace(rest), nil
}

// ParseRejectArgs reads "<id> <reason>".
func ParseRejectArgs(args string) (string, model.RejectionReason, error) {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		return "", "", fmt.Errorf("usage: /reject <id> <%s>", reasonList())
	}
	reason, err := oneOf("reason", fields[1], model.RejectionReasons)
	if err != nil {
		return "", "", err
	}
	return fields[0], reason, nil
}

// ParseSearchArgs reads "[scope] <query>". A leading word that names a scope
// selects it; otherwise every scope is searched.
func ParseSearchArgs(args string) (view.SearchScope, string, error) {
	s := strings.TrimSpace(args)
	if s == "" {
		return "", "", fmt.Errorf("usage: /search [all|competitors|insights|signals] <query>")
	}
	first, rest, _ := strings.Cut(s, " ")
	if scope, ok := view.ParseScope(strings.ToLower(first)); ok {
		rest = strings.TrimSpace(rest)
		if rest == "" {
			return "", "", fmt.Errorf("search query is required")
		}
		return scope, rest, nil
	}
	return view.ScopeAll, s, nil
}

func searchText(a Args) string {
	if q, ok := a.Opts["q"]; ok {
		return q
	}
	return a.Text()
}

func reasonList() string {
	names := make([]string, len(model.RejectionReasons))
	for i, r := range model.RejectionReasons {
		names[i] = string(r)
	}
	return strings.Join(names, "|")
}

package bot

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"compintel/internal/model"
	"compintel/internal/overlay"
	"compintel/internal/synthesis"
	"compintel/internal/view"
)

func (b *Bot) handleStart(chatID int64) {
	b.reply(chatID, `Welcome to Competitive Intel!

Track competitor moves, review synthesized insights and keep your sources in one place.

Quick start:
1. /dashboard - what happened this week
2. /review - insights waiting for verification
3. /competitor <slug> - deep dive on one competitor

Use /help for the full command reference.`)
}

func (b *Bot) handleHelp(chatID int64) {
	b.reply(chatID, `Overview:
/dashboard - KPIs, recent signals, latest insights
/search [all|competitors|insights|signals] <query> - global search
/history [clear|remove <href>] - recent searches
/synthesize - run a synthesis pass

Competitors:
/competitors [q=..] [threat=..] [type=..]
/competitor <slug> [overview|signals] [window=..] [category=..] [strength=..] [sort=..]
/competitor <slug> insights [window=..] [category=..] [impact=..] [status=new|past] [verification=..]
/signals <slug> [window=..] [category=..] [strength=..] [sort=relevant|recent]
/battlecard <slug>

Insights:
/insights [q=..] [window=..] [competitor=..] [category=..] [impact=..] [status=..] [verification=..] [sort=..]
/insight <id> - details with actions
/related <id>
/like, /dislike, /bookmark, /flag <id>
/comment <id> <text>
/activity [bookmarked|liked|disliked|flagged]

Review:
/review [pending|verified|rejected] [category=..] [competitor=..] [sort=impact|recent]
/verify <id> [comment]
/reject <id> <inaccurate|duplicate|low-relevance|outdated>

Sources:
/sources [q=..] [type=..] [competitor=..]
/source <id>
/addsource <competitor> <url> [title] [type=..] [guidance=..]
/editsource <id> title=.. url=.. type=.. competitor=.. guidance=..
/rmsource <id>

Windows: 24h, 7d, 14d, 30d, 60d, 90d, all. Quote values with spaces: title="New title".`)
}

func (b *Bot) handleDashboard(ctx context.Context, chatID int64) {
	c := b.composer(ctx)
	b.reply(chatID, FormatDashboard(c.Dashboard(), b.names(c), c.Now()))
}

func (b *Bot) handleCompetitors(ctx context.Context, chatID int64, args string) {
	a, err := ParseArgs(args)
	if err != nil {
		b.reply(chatID, err.Error())
		return
	}
	f, err := ParseCompetitorFilter(a)
	if err != nil {
		b.reply(chatID, err.Error())
		return
	}
	list, sum, stats := b.composer(ctx).Competitors(f)
	b.reply(chatID, FormatCompetitorList(list, sum, stats))
}

func (b *Bot) handleCompetitor(ctx context.Context, chatID int64, args string) {
	a, err := ParseArgs(args)
	if err != nil {
		b.reply(chatID, err.Error())
		return
	}
	if len(a.Words) == 0 || len(a.Words) > 2 {
		b.reply(chatID, "Usage: /competitor <slug> [overview|signals|insights]")
		return
	}
	tab := tabOverview
	if len(a.Words) == 2 {
		tab = strings.ToLower(a.Words[1])
		if !slices.Contains([]string{tabOverview, tabSignals, tabInsights}, tab) {
			b.reply(chatID, fmt.Sprintf("Unknown tab %q, use: overview, signals, insights", a.Words[1]))
			return
		}
	}
	var q view.CompetitorQuery
	if tab == tabInsights {
		q.Insights, err = ParseCompetitorInsightFilter(Args{Opts: a.Opts})
	} else {
		q.Signals, q.SignalSort, err = ParseSignalFilter(Args{Opts: a.Opts})
	}
	if err != nil {
		b.reply(chatID, err.Error())
		return
	}

	c := b.composer(ctx)
	slug := strings.ToLower(a.Words[0])
	cv, ok := c.Competitor(slug, q)
	if !ok {
		b.reply(chatID, fmt.Sprintf("Competitor %q not found.", slug))
		return
	}
	b.reply(chatID, FormatCompetitor(cv, tab, c.Now()))
}

func (b *Bot) handleSignals(ctx context.Context, chatID int64, args string) {
	a, err := ParseArgs(args)
	if err != nil {
		b.reply(chatID, err.Error())
		return
	}
	if len(a.Words) != 1 {
		b.reply(chatID, "Usage: /signals <slug> [window=..] [category=..] [strength=..] [sort=..]")
		return
	}
	var q view.CompetitorQuery
	q.Signals, q.SignalSort, err = ParseSignalFilter(Args{Opts: a.Opts})
	if err != nil {
		b.reply(chatID, err.Error())
		return
	}

	c := b.composer(ctx)
	slug := strings.ToLower(a.Words[0])
	cv, ok := c.Competitor(slug, q)
	if !ok {
		b.reply(chatID, fmt.Sprintf("Competitor %q not found.", slug))
		return
	}
	b.reply(chatID, FormatSignals(cv, c.Now()))
}

func (b *Bot) handleBattlecard(ctx context.Context, chatID int64, args string) {
	slug, err := ParseIDArg(strings.ToLower(args))
	if err != nil {
		b.reply(chatID, "Usage: /battlecard <slug>")
		return
	}
	comp, ok := b.cat.Competitor(slug)
	if !ok {
		b.reply(chatID, fmt.Sprintf("Competitor %q not found.", slug))
		return
	}
	bc, ok := b.cat.Battlecard(comp.ID)
	if !ok {
		b.reply(chatID, fmt.Sprintf("No battlecard for %s yet.", comp.Name))
		return
	}
	b.reply(chatID, FormatBattlecard(comp.Name, bc))
}

func (b *Bot) handleInsights(ctx context.Context, chatID int64, args string) {
	a, err := ParseArgs(args)
	if err != nil {
		b.reply(chatID, err.Error())
		return
	}
	f, mode, err := ParseInsightFilter(a)
	if err != nil {
		b.reply(chatID, err.Error())
		return
	}
	c := b.composer(ctx)
	list, sum := c.Insights(f, mode)
	b.reply(chatID, FormatInsightList(list, sum, c))
}

func (b *Bot) handleInsight(ctx context.Context, chatID int64, args string) {
	id, err := ParseIDArg(args)
	if err != nil {
		b.reply(chatID, "Usage: /insight <id>")
		return
	}
	c := b.composer(ctx)
	d, ok := c.Insight(id, b.store.StoredComments(ctx, id))
	if !ok {
		b.reply(chatID, fmt.Sprintf("Insight %s not found.", id))
		return
	}
	markup := insightKeyboard(d.Insight.ID, d.Status, d.Interaction)
	b.send(chatID, FormatInsight(d, c.Now()), &markup)
}

func (b *Bot) handleRelated(ctx context.Context, chatID int64, args string) {
	id, err := ParseIDArg(args)
	if err != nil {
		b.reply(chatID, "Usage: /related <id>")
		return
	}
	if _, ok := b.cat.Insight(id); !ok {
		b.reply(chatID, fmt.Sprintf("Insight %s not found.", id))
		return
	}
	related := b.cat.RelatedInsights(id)
	if len(related) == 0 {
		b.reply(chatID, fmt.Sprintf("No related insights for %s.", id))
		return
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Related to %s:\n", id)
	for _, r := range related {
		fmt.Fprintf(&sb, "\n%s [%s] %s\n", r.ID, r.Impact, r.Title)
	}
	b.reply(chatID, sb.String())
}

func (b *Bot) handleReview(ctx context.Context, chatID int64, args string) {
	a, err := ParseArgs(args)
	if err != nil {
		b.reply(chatID, err.Error())
		return
	}
	r, err := ParseReviewArgs(a)
	if err != nil {
		b.reply(chatID, err.Error())
		return
	}
	c := b.composer(ctx)
	list, sum, counts := c.ReviewQueue(r.Tab, r.Filter, r.Order)
	b.reply(chatID, FormatReviewQueue(r.Tab, list, sum, counts, b.names(c), c.Now()))
}

func (b *Bot) handleVerify(ctx context.Context, chatID int64, args string) {
	id, comment, err := ParseIDText(args)
	if err != nil {
		b.reply(chatID, "Usage: /verify <id> [comment]")
		return
	}
	b.recordReview(ctx, chatID, id, model.DecisionVerified, overlay.ReviewExtra{Comment: comment})
}

func (b *Bot) handleReject(ctx context.Context, chatID int64, args string) {
	id, reason, err := ParseRejectArgs(args)
	if err != nil {
		b.reply(chatID, err.Error())
		return
	}
	b.recordReview(ctx, chatID, id, model.DecisionRejected, overlay.ReviewExtra{Reason: reason})
}

func (b *Bot) recordReview(ctx context.Context, chatID int64, id string, decision model.ReviewDecision, extra overlay.ReviewExtra) {
	if _, ok := b.cat.Insight(id); !ok {
		b.reply(chatID, fmt.Sprintf("Insight %s not found.", id))
		return
	}
	a, err := b.store.RecordReviewAction(ctx, id, decision, b.cfg.ReviewerName, extra)
	if err != nil {
		b.reply(chatID, fmt.Sprintf("Error: %v", err))
		return
	}
	text := fmt.Sprintf("Insight %s %s by %s.", id, a.Action, a.By)
	if a.Reason != "" {
		text += " Reason: " + view.ReasonLabel(a.Reason) + "."
	}
	b.reply(chatID, text)
}

func (b *Bot) handleInteraction(ctx context.Context, chatID int64, action, args string) {
	id, err := ParseIDArg(args)
	if err != nil {
		b.reply(chatID, fmt.Sprintf("Usage: /%s <id>", action))
		return
	}
	if _, ok := b.cat.Insight(id); !ok {
		b.reply(chatID, fmt.Sprintf("Insight %s not found.", id))
		return
	}

	var in model.Interaction
	switch action {
	case cmdLike:
		in, err = b.store.SetFeedback(ctx, id, model.FeedbackUp)
	case cmdDislike:
		in, err = b.store.SetFeedback(ctx, id, model.FeedbackDown)
	case cmdBookmark:
		in, err = b.store.ToggleBookmark(ctx, id)
	case cmdFlag:
		in, err = b.store.ToggleFlag(ctx, id)
	}
	if err != nil {
		b.reply(chatID, fmt.Sprintf("Error: %v", err))
		return
	}

	state := interactionLine(in)
	if state == "" {
		state = "no reactions"
	}
	b.reply(chatID, fmt.Sprintf("Insight %s: %s.", id, state))
}

func (b *Bot) handleActivity(ctx context.Context, chatID int64, args string) {
	tab, err := view.ParseActivityTab(strings.ToLower(strings.TrimSpace(args)))
	if err != nil {
		b.reply(chatID, "Usage: /activity [bookmarked|liked|disliked|flagged]")
		return
	}
	list, counts := b.composer(ctx).Activity(tab)
	b.reply(chatID, FormatActivity(tab, list, counts))
}

func (b *Bot) handleComment(ctx context.Context, chatID int64, args string) {
	id, text, err := ParseIDText(args)
	if err != nil {
		b.reply(chatID, "Usage: /comment <id> <text>")
		return
	}
	ins, ok := b.cat.Insight(id)
	if !ok {
		b.reply(chatID, fmt.Sprintf("Insight %s not found.", id))
		return
	}
	c, err := b.store.AddComment(ctx, ins, b.cfg.ReviewerName, text)
	if errors.Is(err, overlay.ErrEmptyComment) {
		b.reply(chatID, "Usage: /comment <id> <text>")
		return
	}
	if err != nil {
		b.reply(chatID, fmt.Sprintf("Error: %v", err))
		return
	}
	total := len(b.store.Comments(ctx, ins))
	b.reply(chatID, fmt.Sprintf("Comment added to %s as %s (%d comments).", id, c.Author, total))
}

func (b *Bot) handleSources(ctx context.Context, chatID int64, args string) {
	a, err := ParseArgs(args)
	if err != nil {
		b.reply(chatID, err.Error())
		return
	}
	f, err := ParseSourceFilter(a)
	if err != nil {
		b.reply(chatID, err.Error())
		return
	}
	c := b.composer(ctx)
	list, sum, stats := c.SourceList(f)
	b.reply(chatID, FormatSources(list, sum, stats, b.names(c), c.Now()))
}

func (b *Bot) handleSource(ctx context.Context, chatID int64, args string) {
	id, err := ParseIDArg(args)
	if err != nil {
		b.reply(chatID, "Usage: /source <id>")
		return
	}
	c := b.composer(ctx)
	s, ok := c.Source(id)
	if !ok {
		b.reply(chatID, fmt.Sprintf("Source %s not found.", id))
		return
	}
	b.reply(chatID, FormatSource(s, b.names(c)))
}

func (b *Bot) handleAddSource(ctx context.Context, chatID int64, args string) {
	a, err := ParseArgs(args)
	if err != nil {
		b.reply(chatID, err.Error())
		return
	}
	if err := a.checkKeys("type", "guidance"); err != nil {
		b.reply(chatID, err.Error())
		return
	}
	if len(a.Words) < 2 {
		b.reply(chatID, "Usage: /addsource <competitor> <url> [title] [type=..] [guidance=..]")
		return
	}
	typ, err := oneOf("type", a.Opts["type"], model.SourceTypes)
	if err != nil {
		b.reply(chatID, err.Error())
		return
	}

	in := overlay.SourceInput{
		URL:      a.Words[1],
		Title:    strings.Join(a.Words[2:], " "),
		Type:     typ,
		Guidance: a.Opts["guidance"],
	}
	comp := a.Words[0]
	if b.competitorKnown(ctx, strings.ToLower(comp)) {
		in.CompetitorID = strings.ToLower(comp)
	} else {
		in.NewCompetitor = comp
	}

	src, err := b.store.AddSource(ctx, in)
	if err != nil {
		b.reply(chatID, fmt.Sprintf("Failed to add source: %v", err))
		return
	}
	b.reply(chatID, fmt.Sprintf("Source added: %s\n%s [%s]\n%s", src.ID, src.Title, src.Type, src.URL))
}

func (b *Bot) competitorKnown(ctx context.Context, id string) bool {
	return slices.ContainsFunc(b.composer(ctx).CompetitorRefs(), func(r model.CompetitorRef) bool {
		return r.ID == id
	})
}

func (b *Bot) handleEditSource(ctx context.Context, chatID int64, args string) {
	a, err := ParseArgs(args)
	if err != nil {
		b.reply(chatID, err.Error())
		return
	}
	if len(a.Words) != 1 {
		b.reply(chatID, "Usage: /editsource <id> title=.. url=.. type=.. competitor=.. guidance=..")
		return
	}
	patch, err := ParseSourcePatch(a)
	if err != nil {
		b.reply(chatID, err.Error())
		return
	}
	id := a.Words[0]

	src, err := b.store.EditSource(ctx, id, patch)
	switch {
	case errors.Is(err, overlay.ErrUnknownSource):
		b.reply(chatID, fmt.Sprintf("Source %s not found.", id))
		return
	case errors.Is(err, overlay.ErrUnknownCompetitor):
		b.reply(chatID, fmt.Sprintf("Competitor %q not found.", *patch.CompetitorID))
		return
	case err != nil:
		b.reply(chatID, fmt.Sprintf("Error: %v", err))
		return
	}
	b.reply(chatID, fmt.Sprintf("Source %s updated: %s [%s]", src.ID, src.Title, src.Type))
}

func (b *Bot) handleRemoveSource(ctx context.Context, chatID int64, args string) {
	id, err := ParseIDArg(args)
	if err != nil {
		b.reply(chatID, "Usage: /rmsource <id>")
		return
	}
	err = b.store.DeleteSource(ctx, id)
	if errors.Is(err, overlay.ErrUnknownSource) {
		b.reply(chatID, fmt.Sprintf("Source %s not found.", id))
		return
	}
	if err != nil {
		b.reply(chatID, fmt.Sprintf("Error deleting source: %v", err))
		return
	}
	b.reply(chatID, fmt.Sprintf("Source %s deleted.", id))
}

func (b *Bot) handleSearch(ctx context.Context, chatID int64, args string) {
	scope, query, err := ParseSearchArgs(args)
	if err != nil {
		b.reply(chatID, err.Error())
		return
	}
	c := b.composer(ctx)
	results := b.search(c, query, scope)
	var suggestions []string
	if len(results) == 0 {
		suggestions = c.Autocomplete(query)
	} else {
		top := results[0]
		_, err := b.store.AddSearchHistory(ctx, model.SearchHistoryItem{
			Query: query,
			Type:  top.Type,
			Title: top.Title,
			Href:  top.Href,
		})
		if err != nil {
			b.log.Warn("record search history", "query", query, "error", err)
		}
	}
	b.reply(chatID, FormatSearch(query, results, suggestions))
}

func (b *Bot) search(c *view.Composer, query string, scope view.SearchScope) []view.SearchResult {
	key := string(scope) + "|" + strings.ToLower(strings.TrimSpace(query))
	if v, ok := b.searches.Get(key); ok {
		return v.([]view.SearchResult)
	}
	results := c.Search(query, scope)
	b.searches.SetDefault(key, results)
	return results
}

func (b *Bot) handleHistory(ctx context.Context, chatID int64, args string) {
	sub, rest, _ := strings.Cut(strings.TrimSpace(args), " ")
	rest = strings.TrimSpace(rest)
	switch strings.ToLower(sub) {
	case "":
		b.reply(chatID, FormatHistory(b.store.SearchHistory(ctx), b.store.Now()))
	case "clear":
		if err := b.store.ClearSearchHistory(ctx); err != nil {
			b.reply(chatID, fmt.Sprintf("Error: %v", err))
			return
		}
		b.reply(chatID, "Search history cleared.")
	case "remove":
		if rest == "" {
			b.reply(chatID, "Usage: /history remove <href>")
			return
		}
		removed, err := b.store.RemoveSearchHistory(ctx, rest)
		if err != nil {
			b.reply(chatID, fmt.Sprintf("Error: %v", err))
			return
		}
		if !removed {
			b.reply(chatID, fmt.Sprintf("No search history entry for %s.", rest))
			return
		}
		b.reply(chatID, fmt.Sprintf("Removed %s from search history.", rest))
	default:
		b.reply(chatID, "Usage: /history [clear|remove <href>]")
	}
}

func (b *Bot) handleSynthesize(ctx context.Context, chatID int64) {
	notify := synthesis.NotifierFunc(func(st synthesis.State) {
		if st.Phase == synthesis.Idle {
			return
		}
		b.reply(chatID, FormatSynthesis(st))
	})
	go func() {
		err := b.runner.Run(ctx, notify)
		switch {
		case errors.Is(err, synthesis.ErrBusy):
			b.reply(chatID, "Synthesis is already running.")
		case err != nil && ctx.Err() == nil:
			b.log.Error("synthesis", "chat_id", chatID, "error", err)
		}
	}()
}

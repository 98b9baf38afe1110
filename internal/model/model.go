// Package model defines the domain types used across the application.
package model

import "time"

// CompetitorType classifies how a competitor overlaps with us.
type CompetitorType string

// Supported competitor types.
const (
	CompetitorDirect   CompetitorType = "direct"
	CompetitorIndirect CompetitorType = "indirect"
	CompetitorEmerging CompetitorType = "emerging"
)

// ThreatLevel is the qualitative threat rating of a competitor.
type ThreatLevel string

// Supported threat levels.
const (
	ThreatCritical ThreatLevel = "critical"
	ThreatHigh     ThreatLevel = "high"
	ThreatMedium   ThreatLevel = "medium"
	ThreatLow      ThreatLevel = "low"
)

// Competitor is a tracked company.
type Competitor struct {
	ID               string         `yaml:"id" json:"id"`
	Slug             string         `yaml:"slug" json:"slug"`
	Name             string         `yaml:"name" json:"name"`
	Type             CompetitorType `yaml:"type" json:"type"`
	Description      string         `yaml:"description" json:"description"`
	Website          string         `yaml:"website" json:"website"`
	ThreatLevel      ThreatLevel    `yaml:"threat_level" json:"threatLevel"`
	ThreatScore      int            `yaml:"threat_score" json:"threatScore"`
	Founded          string         `yaml:"founded" json:"founded"`
	Funding          string         `yaml:"funding" json:"funding"`
	Employees        string         `yaml:"employees" json:"employees"`
	Headquarters     string         `yaml:"headquarters" json:"headquarters"`
	KeyProducts      []string       `yaml:"key_products" json:"keyProducts"`
	Strengths        []string       `yaml:"strengths" json:"strengths"`
	Weaknesses       []string       `yaml:"weaknesses" json:"weaknesses"`
	RecentMoves      []string       `yaml:"recent_moves" json:"recentMoves"`
	SignalCount30d   int            `yaml:"signal_count_30d" json:"signalCount30d"`
	LastActivityDate time.Time      `yaml:"last_activity_date" json:"lastActivityDate"`
	// Briefing is an analyst summary. {signals} and {strong} are replaced
	// with the competitor's signal counts when it is shown.
	Briefing string `yaml:"briefing" json:"briefing,omitempty"`
}

// CompetitorRef is the id/name pair used for competitor pickers. User-added
// competitors only ever exist in this form.
type CompetitorRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SourceType is the kind of external evidence a source represents.
type SourceType string

// Supported source types.
const (
	SourceBlog          SourceType = "blog"
	SourcePressRelease  SourceType = "press-release"
	SourceJobPosting    SourceType = "job-posting"
	SourceGitHub        SourceType = "github"
	SourceSocialMedia   SourceType = "social-media"
	SourceNewsArticle   SourceType = "news-article"
	SourceDocumentation SourceType = "documentation"
	SourceReviewSite    SourceType = "review-site"
)

// SourceTypes lists every source type in display order.
var SourceTypes = []SourceType{
	SourceBlog, SourcePressRelease, SourceJobPosting, SourceGitHub,
	SourceSocialMedia, SourceNewsArticle, SourceDocumentation, SourceReviewSite,
}

// Reliability marks whether a source has been checked.
type Reliability string

// Supported reliability values.
const (
	ReliabilityVerified   Reliability = "verified"
	ReliabilityUnverified Reliability = "unverified"
)

// Source is a cited piece of external evidence.
type Source struct {
	ID           string      `yaml:"id" json:"id"`
	URL          string      `yaml:"url" json:"url"`
	Title        string      `yaml:"title" json:"title"`
	Type         SourceType  `yaml:"type" json:"type"`
	PublishedAt  time.Time   `yaml:"published_at" json:"publishedAt"`
	ScrapedAt    time.Time   `yaml:"scraped_at" json:"scrapedAt"`
	CompetitorID string      `yaml:"competitor_id" json:"competitorId"`
	Snippet      string      `yaml:"snippet" json:"snippet"`
	Reliability  Reliability `yaml:"reliability" json:"reliability"`
	Guidance     string      `yaml:"guidance,omitempty" json:"guidance,omitempty"`
	UserAdded    bool        `yaml:"-" json:"_userAdded,omitempty"`
}

// SourcePatch is a partial update applied over a source. Nil fields are left
// untouched.
type SourcePatch struct {
	Title        *string     `json:"title,omitempty"`
	URL          *string     `json:"url,omitempty"`
	Type         *SourceType `json:"type,omitempty"`
	CompetitorID *string     `json:"competitorId,omitempty"`
	Guidance     *string     `json:"guidance,omitempty"`
}

// Apply returns a copy of s with the non-nil patch fields set.
func (p SourcePatch) Apply(s Source) Source {
	if p.Title != nil {
		s.Title = *p.Title
	}
	if p.URL != nil {
		s.URL = *p.URL
	}
	if p.Type != nil {
		s.Type = *p.Type
	}
	if p.CompetitorID != nil {
		s.CompetitorID = *p.CompetitorID
	}
	if p.Guidance != nil {
		s.Guidance = *p.Guidance
	}
	return s
}

// Category is the topic of a signal or insight.
type Category string

// Supported categories.
const (
	CategoryProduct     Category = "product"
	CategoryPricing     Category = "pricing"
	CategoryPositioning Category = "positioning"
	CategoryHiring      Category = "hiring"
	CategoryFunding     Category = "funding"
	CategoryPartnership Category = "partnership"
	CategoryTechnical   Category = "technical"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryProduct, CategoryPricing, CategoryPositioning, CategoryHiring,
	CategoryFunding, CategoryPartnership, CategoryTechnical,
}

// Strength grades how strong a signal is.
type Strength string

// Supported signal strengths.
const (
	StrengthStrong   Strength = "strong"
	StrengthModerate Strength = "moderate"
	StrengthWeak     Strength = "weak"
)

// Signal is a single detected competitive event tied to one source.
type Signal struct {
	ID           string    `yaml:"id" json:"id"`
	CompetitorID string    `yaml:"competitor_id" json:"competitorId"`
	SourceID     string    `yaml:"source_id" json:"sourceId"`
	Category     Category  `yaml:"category" json:"category"`
	Title        string    `yaml:"title" json:"title"`
	Summary      string    `yaml:"summary" json:"summary"`
	DetectedAt   time.Time `yaml:"detected_at" json:"detectedAt"`
	Strength     Strength  `yaml:"strength" json:"strength"`
}

// Impact grades how much an insight matters.
type Impact string

// Supported impact levels.
const (
	ImpactHigh   Impact = "high"
	ImpactMedium Impact = "medium"
	ImpactLow    Impact = "low"
)

// Team is an internal team an insight is relevant to.
type Team string

// Supported teams.
const (
	TeamProduct     Team = "product"
	TeamEngineering Team = "engineering"
	TeamGTM         Team = "gtm"
	TeamLeadership  Team = "leadership"
)

// InsightStatus is the baseline lifecycle status of an insight.
type InsightStatus string

// Supported insight statuses.
const (
	StatusNew  InsightStatus = "new"
	StatusPast InsightStatus = "past"
)

// VerificationStatus is the review state of an insight.
type VerificationStatus string

// Supported verification statuses.
const (
	VerificationVerified   VerificationStatus = "verified"
	VerificationPending    VerificationStatus = "pending"
	VerificationUnverified VerificationStatus = "unverified"
	VerificationRejected   VerificationStatus = "rejected"
)

// RejectionReason explains why an insight was rejected.
type RejectionReason string

// Supported rejection reasons.
const (
	ReasonInaccurate   RejectionReason = "inaccurate"
	ReasonDuplicate    RejectionReason = "duplicate"
	ReasonLowRelevance RejectionReason = "low-relevance"
	ReasonOutdated     RejectionReason = "outdated"
)

// RejectionReasons lists every rejection reason in display order.
var RejectionReasons = []RejectionReason{ReasonInaccurate, ReasonDuplicate, ReasonLowRelevance, ReasonOutdated}

// Verification records who verified a baseline insight.
type Verification struct {
	VerifiedBy      string    `yaml:"verified_by" json:"verifiedBy"`
	VerifiedAt      time.Time `yaml:"verified_at" json:"verifiedAt"`
	VerifierRole    string    `yaml:"verifier_role" json:"verifierRole"`
	VerifierComment string    `yaml:"verifier_comment,omitempty" json:"verifierComment,omitempty"`
}

// Comment is a discussion entry on an insight.
type Comment struct {
	ID           string    `yaml:"id" json:"id"`
	Author       string    `yaml:"author" json:"author"`
	AuthorRole   string    `yaml:"author_role" json:"authorRole"`
	AuthorAvatar string    `yaml:"author_avatar" json:"authorAvatar"`
	Content      string    `yaml:"content" json:"content"`
	CreatedAt    time.Time `yaml:"created_at" json:"createdAt"`
}

// Insight is a synthesized narrative over signals and sources.
type Insight struct {
	ID                 string             `yaml:"id"`
	Title              string             `yaml:"title"`
	Synthesis          string             `yaml:"synthesis"`
	Category           Category           `yaml:"category"`
	Impact             Impact             `yaml:"impact"`
	TeamRelevance      []Team             `yaml:"team_relevance"`
	CompetitorIDs      []string           `yaml:"competitor_ids"`
	SourceIDs          []string           `yaml:"source_ids"`
	SignalIDs          []string           `yaml:"signal_ids"`
	GeneratedAt        time.Time          `yaml:"generated_at"`
	Confidence         int                `yaml:"confidence"`
	Recommendations    []string           `yaml:"recommendations"`
	Status             InsightStatus      `yaml:"status"`
	VerificationStatus VerificationStatus `yaml:"verification_status"`
	Verification       *Verification      `yaml:"verification,omitempty"`
	RejectionReason    RejectionReason    `yaml:"rejection_reason,omitempty"`
	RejectedAt         *time.Time         `yaml:"rejected_at,omitempty"`
	RejectedBy         string             `yaml:"rejected_by,omitempty"`
	Comments           []Comment          `yaml:"comments,omitempty"`
	RelatedInsightIDs  []string           `yaml:"related_insight_ids,omitempty"`
}

// Objection pairs a sales objection with the suggested response.
type Objection struct {
	Objection string `yaml:"objection"`
	Response  string `yaml:"response"`
}

// Battlecard is the sales-enablement sheet for one competitor.
type Battlecard struct {
	ID                 string      `yaml:"id"`
	CompetitorID       string      `yaml:"competitor_id"`
	UpdatedAt          time.Time   `yaml:"updated_at"`
	Positioning        string      `yaml:"positioning"`
	OurAdvantages      []string    `yaml:"our_advantages"`
	TheirAdvantages    []string    `yaml:"their_advantages"`
	ObjectionHandling  []Objection `yaml:"objection_handling"`
	KeyDifferentiators []string    `yaml:"key_differentiators"`
	PricingComparison  string      `yaml:"pricing_comparison"`
	WinRate            int         `yaml:"win_rate"`
	WinRateRationale   string      `yaml:"win_rate_rationale"`
	CommonScenarios    []string    `yaml:"common_scenarios"`
}

// KPI is a headline dashboard metric.
type KPI struct {
	Label           string `yaml:"label"`
	Value           string `yaml:"value"`
	Change          int    `yaml:"change"`
	ChangeDirection string `yaml:"change_direction"`
	Period          string `yaml:"period"`
	Sparkline       []int  `yaml:"sparkline"`
}

// Feedback is a thumbs up/down reaction. The zero value means no feedback.
type Feedback string

// Supported feedback values.
const (
	FeedbackNone Feedback = ""
	FeedbackUp   Feedback = "up"
	FeedbackDown Feedback = "down"
)

// Interaction is the per-insight user state.
type Interaction struct {
	Feedback   *Feedback `json:"feedback"`
	Bookmarked bool      `json:"bookmarked"`
	Flagged    bool      `json:"flagged"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// FeedbackValue returns the feedback or FeedbackNone.
func (i Interaction) FeedbackValue() Feedback {
	if i.Feedback == nil {
		return FeedbackNone
	}
	return *i.Feedback
}

// ReviewDecision is the outcome of a review queue action.
type ReviewDecision string

// Supported review decisions.
const (
	DecisionVerified ReviewDecision = "verified"
	DecisionRejected ReviewDecision = "rejected"
)

// ReviewAction is the latest review decision recorded for an insight.
type ReviewAction struct {
	Action  ReviewDecision  `json:"action"`
	At      time.Time       `json:"at"`
	By      string          `json:"by"`
	Comment string          `json:"comment,omitempty"`
	Reason  RejectionReason `json:"reason,omitempty"`
}

// SearchHistoryItem is a previously selected search result.
type SearchHistoryItem struct {
	Query     string `json:"query"`
	Type      string `json:"type"`
	Title     string `json:"title"`
	Href      string `json:"href"`
	Timestamp int64  `json:"timestamp"`
}

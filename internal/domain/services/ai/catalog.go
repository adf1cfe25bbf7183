package ai

// IndicatorCategory is one named class of scam tactic, detected by
// case-insensitive substring matches against the message.
type IndicatorCategory struct {
	Key         string   `json:"key"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords"`
}

// Descriptions for matches that are not keyword categories
const (
	descFormatting    = "Poor grammar or unusual formatting"
	descShortenedURL  = "Shortened or suspicious URLs"
	descGenericURL    = "Contains links (verify before clicking)"
	descSensitiveInfo = "Requests for sensitive personal information"
)

// catalog is the ordered set of scam indicator categories. Matching is
// order-sensitive: the scorer walks categories in declaration order.
var catalog = []IndicatorCategory{
	{
		Key:         "urgentLanguage",
		Description: "Urgent or time-pressured language",
		Keywords: []string{
			"urgent", "immediately", "act now", "limited time", "expires",
			"hurry", "today only", "last chance", "final notice",
			"suspended", "locked", "expire",
		},
	},
	{
		Key:         "paymentRequest",
		Description: "Requests for payment or financial information",
		Keywords: []string{
			"wire transfer", "gift card", "bitcoin", "crypto", "payment",
			"send money", "pay now", "invoice", "western union", "paypal",
			"venmo", "cash app", "zelle",
		},
	},
	{
		Key:         "impersonation",
		Description: "Impersonation of official organizations",
		Keywords: []string{
			"verify account", "confirm identity", "update information",
			"security alert", "unusual activity", "click here", "log in",
			"reset password", "suspended account", "unauthorized access",
		},
	},
	{
		Key:         "prizes",
		Description: "Too-good-to-be-true offers or prizes",
		Keywords: []string{
			"you've won", "congratulations", "winner", "prize", "lottery",
			"claim your", "free gift", "selected", "lucky",
		},
	},
	{
		Key:         "threats",
		Description: "Threats or legal intimidation",
		Keywords: []string{
			"legal action", "arrest", "warrant", "police", "lawsuit",
			"court", "penalty", "fine", "consequences", "investigation",
		},
	},
}

// sensitiveInfoKeywords trigger their own score bump outside the
// category table.
var sensitiveInfoKeywords = []string{
	"social security", "ssn", "credit card", "bank account",
	"password", "pin", "date of birth",
}

// Catalog returns the ordered indicator categories. The returned slice
// is shared, read-only data; callers must not modify it.
func Catalog() []IndicatorCategory {
	return catalog
}

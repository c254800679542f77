package errors

// Category is the user-facing class of a failure. Enrichment surfaces exactly
// one category per invocation.
type Category string

// Failure categories
const (
	CategoryNone          Category = ""
	CategoryTimeout       Category = "timeout"
	CategoryRelayDenied   Category = "relay_denied"
	CategoryBlockedPage   Category = "blocked_page"
	CategoryNothingParsed Category = "nothing_parsed"
	CategoryTransport     Category = "transport"
	CategoryCanceled      Category = "canceled"
	CategoryValidation    Category = "validation"
	CategoryNotFound      Category = "not_found"
	CategoryUnknown       Category = "unknown"
)

// Classify returns the category of err. Order matters: a relay denial wrapped
// in a transport error still reports as a denial.
func Classify(err error) Category {
	switch {
	case err == nil:
		return CategoryNone
	case Is(err, ErrRelayDenied):
		return CategoryRelayDenied
	case Is(err, ErrTimeout):
		return CategoryTimeout
	case Is(err, ErrCanceled):
		return CategoryCanceled
	case Is(err, ErrBlockedPage):
		return CategoryBlockedPage
	case Is(err, ErrNothingParsed):
		return CategoryNothingParsed
	case Is(err, ErrTransport):
		return CategoryTransport
	case Is(err, ErrInvalidInput):
		return CategoryValidation
	case Is(err, ErrNotFound):
		return CategoryNotFound
	default:
		return CategoryUnknown
	}
}

// Message returns the single user-facing message for err.
func Message(err error) string {
	switch Classify(err) {
	case CategoryNone:
		return ""
	case CategoryRelayDenied:
		return "The fetch relay refused the request. Check the relay API key or quota."
	case CategoryTimeout:
		return "The source did not answer in time. Try again later."
	case CategoryCanceled:
		return "The request was canceled."
	case CategoryBlockedPage:
		return "The source returned a block page instead of the kit details."
	case CategoryNothingParsed:
		return "No kit details could be read from the page."
	case CategoryTransport:
		return "The page could not be fetched."
	default:
		return err.Error()
	}
}

package variables

import (
	"slices"

	ferrors "github.com/MarcosLancellotti2225/HTMLgenerator/internal/foundation/errors"
)

// Category identifies the notification a template is used for.
type Category string

const (
	SignaturesRequest       Category = "signatures_request"
	SignaturesReceipt       Category = "signatures_receipt"
	RequestExpired          Category = "request_expired"
	PendingSign             Category = "pending_sign"
	DocumentCanceled        Category = "document_canceled"
	EmailsRequest           Category = "emails_request"
	ValidationRequest       Category = "validation_request"
	SignedDocument          Category = "signed_document"
	DocumentDeclined        Category = "document_declined"
	RequestExpiredRequester Category = "request_expired_requester"
)

var allCategories = []Category{
	SignaturesRequest,
	SignaturesReceipt,
	RequestExpired,
	PendingSign,
	DocumentCanceled,
	EmailsRequest,
	ValidationRequest,
	SignedDocument,
	DocumentDeclined,
	RequestExpiredRequester,
}

// mandatory lists the tokens a category's template must contain, in the
// order they are reported when missing.
var mandatory = map[Category][]string{
	SignaturesRequest: {"{{sign_button}}"},
	PendingSign:       {"{{sign_button}}"},
	EmailsRequest:     {"{{email_button}}"},
	ValidationRequest: {"{{validate_button}}"},
}

// DefaultPrimaryToken is the placeholder the generator swaps for the button.
const DefaultPrimaryToken = "{{sign_button}}"

// AllCategories returns the ten categories in their fixed order.
func AllCategories() []Category {
	return slices.Clone(allCategories)
}

// ParseCategory validates a raw category name.
func ParseCategory(raw string) (Category, error) {
	c := Category(raw)
	if slices.Contains(allCategories, c) {
		return c, nil
	}
	return "", ferrors.ValidationError("unknown template category").
		WithContext("category", raw).
		Build()
}

func (c Category) String() string { return string(c) }

// Mandatory returns the tokens that must appear in a template of category c.
func Mandatory(c Category) []string {
	return slices.Clone(mandatory[c])
}

// PrimaryToken is the first mandatory token of c, or {{sign_button}} when
// the category has none.
func PrimaryToken(c Category) string {
	if tokens := mandatory[c]; len(tokens) > 0 {
		return tokens[0]
	}
	return DefaultPrimaryToken
}

package profiling

import (
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/tablens/tablens/pkg/constants"
	"github.com/tablens/tablens/pkg/models"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\+?\d{1,16}$`)

	isoDatePrefix = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)
	usDatePattern = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)
	euDatePattern = regexp.MustCompile(`^\d{2}-\d{2}-\d{4}$`)

	phoneSeparators = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")
)

// dateLayouts are tried in order when a cell needs to parse as a date.
// The ISO layouts come first because they are also what the canonical
// fill_today fix writes.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"01/02/2006",
	"02-01-2006",
}

// ParseDate parses a cell value as a date against the supported layouts
func ParseDate(v interface{}) (time.Time, bool) {
	if t, ok := v.(time.Time); ok {
		return t, true
	}
	s := strings.TrimSpace(models.AsString(v))
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// IsValidEmail reports whether a string matches the local@domain.tld shape
func IsValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// NormalizePhone strips spaces, dashes and parentheses from a phone value
func NormalizePhone(s string) string {
	return phoneSeparators.Replace(strings.TrimSpace(s))
}

// InferTypes infers a type for every column in the dataset. The map is
// recomputed whole on every analysis pass, never partially updated.
func InferTypes(ds *models.Dataset) map[string]models.ColumnType {
	types := make(map[string]models.ColumnType, len(ds.Columns))
	for _, col := range ds.Columns {
		types[col] = InferColumnType(ds.ColumnValues(col))
	}
	return types
}

// InferColumnType classifies a column's values into one type tag. Checks
// run in a fixed priority order and the first match wins, so a column of
// "0"/"1" strings is boolean even though every value also parses as a
// number. Only the first 100 non-null values are sampled.
func InferColumnType(values []interface{}) models.ColumnType {
	nonNull := make([]interface{}, 0, len(values))
	for _, v := range values {
		if !models.IsMissing(v) {
			nonNull = append(nonNull, v)
		}
	}
	if len(nonNull) == 0 {
		return models.ColumnTypeUnknown
	}

	sample := nonNull
	if len(sample) > constants.TypeSampleSize {
		sample = sample[:constants.TypeSampleSize]
	}
	total := float64(len(sample))

	boolCount, numCount, dateCount, emailCount, phoneCount, urlCount := 0, 0, 0, 0, 0, 0
	for _, v := range sample {
		if isBooleanValue(v) {
			boolCount++
		}
		if _, ok := models.AsFloat(v); ok {
			numCount++
		}
		if looksLikeDate(v) {
			dateCount++
		}
		s := strings.TrimSpace(models.AsString(v))
		if IsValidEmail(s) {
			emailCount++
		}
		if phonePattern.MatchString(NormalizePhone(s)) {
			phoneCount++
		}
		if looksLikeURL(s) {
			urlCount++
		}
	}

	switch {
	case boolCount == len(sample):
		return models.ColumnTypeBoolean
	case float64(numCount) >= constants.NumberThreshold*total:
		return models.ColumnTypeNumber
	case float64(dateCount) >= constants.DateThreshold*total:
		return models.ColumnTypeDate
	case float64(emailCount) >= constants.EmailThreshold*total:
		return models.ColumnTypeEmail
	case float64(phoneCount) >= constants.PhoneThreshold*total:
		return models.ColumnTypePhone
	case float64(urlCount) >= constants.URLThreshold*total:
		return models.ColumnTypeURL
	default:
		return models.ColumnTypeString
	}
}

func isBooleanValue(v interface{}) bool {
	if _, ok := v.(bool); ok {
		return true
	}
	switch strings.ToLower(strings.TrimSpace(models.AsString(v))) {
	case "true", "false", "1", "0":
		return true
	}
	return false
}

func looksLikeDate(v interface{}) bool {
	s := strings.TrimSpace(models.AsString(v))
	if s == "" {
		return false
	}
	if isoDatePrefix.MatchString(s) || usDatePattern.MatchString(s) || euDatePattern.MatchString(s) {
		return true
	}
	_, ok := ParseDate(s)
	return ok
}

func looksLikeURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.Scheme != "" && u.Host != ""
}

package service

import (
	"sync"
	"testing"

	"github.com/bchiyangwa9/london-property-analyzer/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestValidator(t *testing.T) *Validator {
	t.Helper()

	v, err := NewValidator(domain.DefaultCriteria())
	require.NoError(t, err)
	return v
}

func validRaw() domain.RawProperty {
	return domain.RawProperty{
		PropertyID:   "prop-001",
		Price:        "£350,000",
		Bedrooms:     "3",
		Postcode:     "se9 4qx",
		PropertyType: "Semi-Detached House",
		OutdoorSpace: "Garden",
	}
}

func TestValidatorRejectsInvalidCriteria(t *testing.T) {
	t.Parallel()

	criteria := domain.DefaultCriteria()
	criteria.BudgetMax = criteria.BudgetMin - 1

	_, err := NewValidator(criteria)
	require.Error(t, err)

	var confErr *domain.ConfigurationError
	assert.ErrorAs(t, err, &confErr)
}

func TestValidatorAcceptsCleanRecord(t *testing.T) {
	t.Parallel()

	v := newTestValidator(t)
	res := v.Validate(validRaw())

	require.True(t, res.Valid(), "unexpected errors: %v", res.Errors)
	assert.Empty(t, res.Warnings)
	assert.Equal(t, int64(350_000), res.Record.Price)
	assert.Equal(t, 3, res.Record.Bedrooms)
	assert.Equal(t, "SE9 4QX", res.Record.Postcode)
	assert.Equal(t, "Semi-Detached House", res.Record.PropertyType)
}

func TestValidatorMissingRequiredFields(t *testing.T) {
	t.Parallel()

	v := newTestValidator(t)
	res := v.Validate(domain.RawProperty{})

	require.False(t, res.Valid())
	require.Len(t, res.Errors, 5)
	for _, issue := range res.Errors {
		assert.Equal(t, domain.CodeMissingRequiredField, issue.Code)
	}
}

func TestValidatorPriceCoercion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		price     string
		wantPrice int64
		wantCode  string
		wantWarn  string
	}{
		{name: "plain number", price: "350000", wantPrice: 350_000},
		{name: "currency and commas", price: "£1,250,000", wantPrice: 1_250_000},
		{name: "decimal portal price", price: "349999.99", wantPrice: 349_999},
		{name: "non-numeric", price: "POA", wantCode: domain.CodeInvalidPrice},
		{name: "zero", price: "0", wantCode: domain.CodeInvalidPrice},
		{name: "negative", price: "-5000", wantCode: domain.CodeInvalidPrice},
		{name: "implausibly high warns", price: "£25,000,000", wantPrice: 25_000_000, wantWarn: domain.CodeImplausiblePrice},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			v := newTestValidator(t)
			raw := validRaw()
			raw.Price = tt.price

			res := v.Validate(raw)

			if tt.wantCode != "" {
				require.False(t, res.Valid())
				assert.Equal(t, tt.wantCode, res.Errors[0].Code)
				return
			}

			require.True(t, res.Valid(), "unexpected errors: %v", res.Errors)
			assert.Equal(t, tt.wantPrice, res.Record.Price)

			if tt.wantWarn != "" {
				require.Len(t, res.Warnings, 1)
				assert.Equal(t, tt.wantWarn, res.Warnings[0].Code)
			}
		})
	}
}

func TestValidatorBedroomCoercion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		bedrooms string
		want     int
		wantCode string
		wantWarn string
	}{
		{name: "plain", bedrooms: "4", want: 4},
		{name: "with suffix", bedrooms: "3 bedrooms", want: 3},
		{name: "non-numeric", bedrooms: "three", wantCode: domain.CodeInvalidBedroomCount},
		{name: "negative", bedrooms: "-1", wantCode: domain.CodeInvalidBedroomCount},
		{name: "unusually many warns", bedrooms: "14", want: 14, wantWarn: domain.CodeUnusualBedroomCount},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			v := newTestValidator(t)
			raw := validRaw()
			raw.Bedrooms = tt.bedrooms

			res := v.Validate(raw)

			if tt.wantCode != "" {
				require.False(t, res.Valid())
				assert.Equal(t, tt.wantCode, res.Errors[0].Code)
				return
			}

			require.True(t, res.Valid(), "unexpected errors: %v", res.Errors)
			assert.Equal(t, tt.want, res.Record.Bedrooms)

			if tt.wantWarn != "" {
				require.Len(t, res.Warnings, 1)
				assert.Equal(t, tt.wantWarn, res.Warnings[0].Code)
			}
		})
	}
}

func TestValidatorPostcodeNormalization(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		postcode string
		want     string
		wantCode string
	}{
		{name: "lower case", postcode: "se1 9sp", want: "SE1 9SP"},
		{name: "surrounding whitespace", postcode: "  BR6 0HX  ", want: "BR6 0HX"},
		{name: "no space", postcode: "DA152DU", want: "DA152DU"},
		{name: "rejects street text", postcode: "High Street", wantCode: domain.CodeInvalidPostcodeFormat},
		{name: "rejects truncated", postcode: "SE1", wantCode: domain.CodeInvalidPostcodeFormat},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			v := newTestValidator(t)
			raw := validRaw()
			raw.Postcode = tt.postcode

			res := v.Validate(raw)

			if tt.wantCode != "" {
				require.False(t, res.Valid())
				assert.Equal(t, tt.wantCode, res.Errors[0].Code)
				return
			}

			require.True(t, res.Valid(), "unexpected errors: %v", res.Errors)
			assert.Equal(t, tt.want, res.Record.Postcode)
		})
	}
}

func TestValidatorPropertyTypeNormalization(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		rawType  string
		want     string
		wantWarn bool
	}{
		{name: "canonical passes through", rawType: "Detached House", want: "Detached House"},
		{name: "case folded", rawType: "terraced house", want: "Terraced House"},
		{name: "apartment becomes flat", rawType: "Apartment", want: "Flat"},
		{name: "bare detached expands", rawType: "detached", want: "Detached House"},
		{name: "unknown keeps text and warns", rawType: "Houseboat", want: "Houseboat", wantWarn: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			v := newTestValidator(t)
			raw := validRaw()
			raw.PropertyType = tt.rawType

			res := v.Validate(raw)

			require.True(t, res.Valid(), "unexpected errors: %v", res.Errors)
			assert.Equal(t, tt.want, res.Record.PropertyType)

			if tt.wantWarn {
				require.Len(t, res.Warnings, 1)
				assert.Equal(t, domain.CodeUnknownPropertyType, res.Warnings[0].Code)
			} else {
				assert.Empty(t, res.Warnings)
			}
		})
	}
}

func TestValidatorConcurrentTypeNormalization(t *testing.T) {
	t.Parallel()

	v := newTestValidator(t)

	// These spellings have no synonym entry, so every goroutine goes
	// through the title-casing path. Run with -race to catch regressions
	// back to a shared caser.
	inputs := map[string]string{
		"flat":       "Flat",
		"studio":     "Studio",
		"maisonette": "Maisonette",
		"bungalow":   "Bungalow",
		"townhouse":  "Townhouse",
	}

	var wg sync.WaitGroup
	for rawType, want := range inputs {
		rawType, want := rawType, want
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()

				raw := validRaw()
				raw.PropertyType = rawType

				res := v.Validate(raw)
				assert.True(t, res.Valid(), "unexpected errors for %q: %v", rawType, res.Errors)
				assert.Equal(t, want, res.Record.PropertyType)
			}()
		}
	}
	wg.Wait()
}

func TestValidatorIsIdempotent(t *testing.T) {
	t.Parallel()

	v := newTestValidator(t)
	raw := validRaw()

	first := v.Validate(raw)
	second := v.Validate(raw)

	assert.Equal(t, first, second)
}

func TestValidatorCarriesDerivedFields(t *testing.T) {
	t.Parallel()

	v := newTestValidator(t)
	commute := 35.0
	raw := validRaw()
	raw.CommuteMinutes = &commute
	raw.NearestSchoolOfsted = "Outstanding"
	raw.GrammarProximity = "Yes"

	res := v.Validate(raw)

	require.True(t, res.Valid())
	require.NotNil(t, res.Record.CommuteMinutes)
	assert.Equal(t, 35.0, *res.Record.CommuteMinutes)
	assert.Equal(t, domain.OfstedOutstanding, res.Record.NearestSchoolOfsted)
	assert.Equal(t, domain.GrammarYes, res.Record.GrammarProximity)
}

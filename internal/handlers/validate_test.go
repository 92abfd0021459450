package handlers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateCustomerEmail(t *testing.T) {
	assert.Empty(t, validateCustomerEmail("contact@acme.com"))
	assert.Empty(t, validateCustomerEmail("first.last@sub.example.org"))
	assert.NotEmpty(t, validateCustomerEmail("not-an-email"))
	assert.NotEmpty(t, validateCustomerEmail("missing@tld"))
	assert.NotEmpty(t, validateCustomerEmail(""))
}

func TestValidateCustomerName(t *testing.T) {
	assert.Empty(t, validateCustomerName("Acme"))
	assert.NotEmpty(t, validateCustomerName("A"))
	assert.NotEmpty(t, validateCustomerName(strings.Repeat("x", 101)))
}

func TestValidateLengthsCountCharacters(t *testing.T) {
	// multibyte names: limits are character counts, not byte counts
	assert.Empty(t, validateCustomerName("Ая"))
	assert.Empty(t, validateCustomerName(strings.Repeat("я", 100)))
	assert.NotEmpty(t, validateCustomerName(strings.Repeat("я", 101)))

	assert.Empty(t, validateLeadTitle("日本"))
	assert.Empty(t, validateLeadTitle(strings.Repeat("日", 200)))
	assert.NotEmpty(t, validateLeadTitle(strings.Repeat("日", 201)))
}

func TestValidateLeadStatus(t *testing.T) {
	for _, s := range []string{"New", "Contacted", "Converted", "Lost"} {
		assert.Empty(t, validateLeadStatus(s))
	}
	assert.NotEmpty(t, validateLeadStatus("Qualified"))
	assert.NotEmpty(t, validateLeadStatus("new"))
	assert.NotEmpty(t, validateLeadStatus(""))
}

func TestPageCount(t *testing.T) {
	assert.Equal(t, 3, pageCount(3, 1))
	assert.Equal(t, 1, pageCount(3, 10))
	assert.Equal(t, 2, pageCount(11, 10))
	assert.Equal(t, 0, pageCount(0, 10))
}

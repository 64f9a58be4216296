package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPhone_Formats(t *testing.T) {
	assert.Equal(t, "5185123693", Phone("518-512-3693"))
	assert.Equal(t, "5185123693", Phone("(518) 512 3693"))
	assert.Equal(t, "5185123693", Phone("5185123693"))
	assert.Equal(t, "5185123693", Phone("+1 518 512 3693"))
	assert.Equal(t, "5185123693", Phone("15185123693"))
}

func TestPhone_SpreadsheetFloat(t *testing.T) {
	assert.Equal(t, "5184340726", Phone("5184340726.0"))
}

func TestPhone_Invalid(t *testing.T) {
	assert.Equal(t, "", Phone(""))
	assert.Equal(t, "", Phone("call me"))
	assert.Equal(t, "", Phone("12345"))
	assert.Equal(t, "", Phone("518512369"))    // 9 digits
	assert.Equal(t, "", Phone("51851236931"))  // 11 digits, no leading 1
	assert.Equal(t, "", Phone("0000000000"))   // all zeros
	assert.Equal(t, "", Phone("445185123693")) // international
}

func TestEmail_Basic(t *testing.T) {
	assert.Equal(t, "john@acme.com", Email("  John@Acme.COM "))
	assert.Equal(t, "john@acme.com", Email("john@acme.com, jane@acme.com"))
}

func TestEmail_Invalid(t *testing.T) {
	assert.Equal(t, "", Email(""))
	assert.Equal(t, "", Email("not-an-email"))
	assert.Equal(t, "", Email("@acme.com"))
	assert.Equal(t, "", Email("john@"))
	assert.Equal(t, "", Email("a@b@c.com"))
}

func TestEmail_TooLong(t *testing.T) {
	long := make([]byte, 250)
	for i := range long {
		long[i] = 'a'
	}
	assert.Equal(t, "", Email(string(long)+"@example.com"))
}

func TestPersonName_Canonical(t *testing.T) {
	assert.Equal(t, "david sarraf", PersonName("David", "Sarraf"))
	assert.Equal(t, "david sarraf", PersonName("  DAVID ", " Sarraf "))
	assert.Equal(t, "cher", PersonName("Cher", ""))
}

func TestPersonName_Placeholders(t *testing.T) {
	assert.Equal(t, "", PersonName("", ""))
	assert.Equal(t, "", PersonName("nan", "nan"))
	assert.Equal(t, "", PersonName("n/a", ""))
	assert.Equal(t, "", PersonName("Not", "Available"))
}

func TestOrgName_Canonical(t *testing.T) {
	assert.Equal(t, "acme capital llc", OrgName("  Acme   Capital LLC "))
}

func TestOrgName_Placeholders(t *testing.T) {
	for _, raw := range []string{"", "nan", "N/A", "Owner Managed", "owner-managed", "Self Managed", "TBD", "Unknown"} {
		assert.Equal(t, "", OrgName(raw), "raw=%q", raw)
	}
}

func TestOrgName_KeepsSuffixes(t *testing.T) {
	// Suffix variants must remain distinct identities.
	assert.NotEqual(t, OrgName("Acme Capital"), OrgName("Acme Capital LLC"))
}

func TestLinkedIn_Canonical(t *testing.T) {
	assert.Equal(t,
		"https://linkedin.com/in/david-sarraf",
		LinkedIn("https://linkedin.com/in/David-Sarraf/?utm_source=share"))
	assert.Equal(t,
		"https://linkedin.com/in/david-sarraf",
		LinkedIn("https://linkedin.com/in/david-sarraf/"))
	assert.Equal(t, "", LinkedIn("  "))
}

func TestStripLegalSuffix(t *testing.T) {
	assert.Equal(t, "acme", StripLegalSuffix("acme capital llc"))
	assert.Equal(t, "anderson", StripLegalSuffix("anderson family office"))
	assert.Equal(t, "smith jones", StripLegalSuffix("smith & jones partners"))
}

func TestStripLegalSuffix_ReportingOnlyCollision(t *testing.T) {
	// Two distinct canonical identities that collapse under the reporting
	// transform — exactly the pairs the auditor should surface.
	a := OrgName("Acme Capital")
	b := OrgName("Acme Capital LLC")
	assert.NotEqual(t, a, b)
	assert.Equal(t, StripLegalSuffix(a), StripLegalSuffix(b))
}

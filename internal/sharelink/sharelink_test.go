package sharelink

import (
	"net/url"
	"testing"

	"reelmatch/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	link, err := Encode("https://example.com/app?lang=en&reason=old", "drone-aerial", "Big views & more")
	require.NoError(t, err)

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "example.com", u.Host)
	assert.Equal(t, "en", u.Query().Get("lang"))
	assert.Equal(t, "drone-aerial", u.Query().Get(ParamServiceID))
	assert.Equal(t, "Big views & more", u.Query().Get(ParamReason))
}

func TestEncode_NoReason(t *testing.T) {
	link, err := Encode("https://example.com/?reason=stale", "corporate", "")
	require.NoError(t, err)
	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "corporate", u.Query().Get(ParamServiceID))
	assert.False(t, u.Query().Has(ParamReason))

	_, err = Encode("https://example.com/", "", "x")
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestRoundTrip(t *testing.T) {
	link, err := Encode("https://example.com/", "testimonial", "Customers trust customers")
	require.NoError(t, err)

	res, err := Decode(link)
	require.NoError(t, err)
	require.Len(t, res.Recommendations, 1)
	item := res.Recommendations[0]
	assert.Equal(t, "testimonial", item.ServiceID)
	assert.Equal(t, "Customers trust customers", item.Reason)
	assert.Equal(t, []string{SharedKeyword}, item.MatchedKeywords)
}

func TestDecode_Rejects(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want error
	}{
		{"missing reason", "https://example.com/?serviceId=ad-film", models.ErrValidation},
		{"missing service", "?reason=nice", models.ErrValidation},
		{"empty", "", models.ErrValidation},
		{"unknown service", "serviceId=ghost&reason=boo", models.ErrUnknownService},
		{"bad escape", "serviceId=%zz&reason=x", models.ErrValidation},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(tc.raw)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestDecode_BareQueryWithFragment(t *testing.T) {
	res, err := Decode("serviceId=live-streaming&reason=Go%20live#top")
	require.NoError(t, err)
	assert.Equal(t, []string{"live-streaming"}, res.ServiceIDs())
	assert.Equal(t, "Go live", res.Recommendations[0].Reason)
}

package ncip

import (
	"testing"

	"github.com/stretchr/testify/require"
)

var testConfig = Config{
	URL:           "https://circ.example.org/ncip",
	RegistryID:    "128807",
	InstitutionID: "91475",
	AgencyScheme:  "http://oclc.org/ncip/schemes/agencyid.scm",
	ProfileScheme: "http://oclc.org/ncip/schemes/application-profile/platform.scm",
	Profile:       "Version 2011",
}

func TestBuildCheckIn(t *testing.T) {
	payload, err := buildCheckIn(testConfig, "B001")
	require.NoError(t, err)

	doc := string(payload)
	require.Contains(t, doc, `<?xml version="1.0" encoding="UTF-8"?>`)
	require.Contains(t, doc, `<NCIPMessage xmlns="http://www.niso.org/2008/ncip" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" xmlns:ncip="http://www.niso.org/2008/ncip"`)
	require.Contains(t, doc, `xsi:schemaLocation="http://www.niso.org/2008/ncip http://www.niso.org/schemas/ncip/v2_01/ncip_v2_01.xsd"`)
	require.Contains(t, doc, `ncip:version="http://www.niso.org/schemas/ncip/v2_01/ncip_v2_01.xsd"`)
	require.Contains(t, doc, `<FromAgencyId><AgencyId ncip:Scheme="http://oclc.org/ncip/schemes/agencyid.scm">128807</AgencyId></FromAgencyId>`)
	require.Contains(t, doc, `<ToAgencyId><AgencyId>128807</AgencyId></ToAgencyId>`)
	require.Contains(t, doc, `<ApplicationProfileType ncip:Scheme="http://oclc.org/ncip/schemes/application-profile/platform.scm">Version 2011</ApplicationProfileType>`)
	require.Contains(t, doc, `<ItemId><AgencyId>91475</AgencyId><ItemIdentifierValue>B001</ItemIdentifierValue></ItemId>`)
}

func TestBuildCheckIn_EscapesBarcode(t *testing.T) {
	payload, err := buildCheckIn(testConfig, `B<1>&"`)
	require.NoError(t, err)
	require.Contains(t, string(payload), `<ItemIdentifierValue>B&lt;1&gt;&amp;&#34;</ItemIdentifierValue>`)
}

func TestParseResponse(t *testing.T) {
	t.Run("routing instructions", func(t *testing.T) {
		res, err := parseResponse([]byte(`<NCIPMessage xmlns="http://www.niso.org/2008/ncip"><CheckInItemResponse><RoutingInstructions>Shelve</RoutingInstructions><RoutingInstructions>Second</RoutingInstructions></CheckInItemResponse></NCIPMessage>`))
		require.NoError(t, err)
		require.Nil(t, res.problemError())
		require.Equal(t, "Shelve", res.routing())
	})

	t.Run("empty document", func(t *testing.T) {
		_, err := parseResponse([]byte("   "))
		require.Error(t, err)
	})

	t.Run("truncated document", func(t *testing.T) {
		_, err := parseResponse([]byte(`<NCIPMessage xmlns="http://www.niso.org/2008/ncip"><Problem>`))
		require.Error(t, err)
	})
}

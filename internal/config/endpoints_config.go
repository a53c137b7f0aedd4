package config

import (
	"fmt"
	"strings"
)

const (
	defaultAvailabilityURL      = "https://worldcat.org/circ/availability/sru/service"
	defaultCirculationURLFormat = "https://%s.share.worldcat.org"
	defaultNCIPAgencyScheme     = "http://oclc.org/ncip/schemes/agencyid.scm"
	defaultNCIPProfileScheme    = "http://oclc.org/ncip/schemes/application-profile/platform.scm"
	defaultNCIPProfile          = "Version 2011"
)

type EndpointsConfig interface {
	GetDiscoveryURL() string
	GetAvailabilityURL() string
	GetCirculationBaseURL() string
	GetNCIPURL() string
	GetInstitutionID() string
	GetRegistryID() string
	GetNCIPAgencyScheme() string
	GetNCIPProfileScheme() string
	GetNCIPProfile() string
}

type Endpoints struct {
	file *FileConfig
}

var _ EndpointsConfig = Endpoints{}

func (e Endpoints) GetDiscoveryURL() string {
	return strings.TrimSuffix(GetEnv("OCLC_DISCOVERY_URL", e.file.DiscoveryAPIURL), "/")
}

func (Endpoints) GetAvailabilityURL() string {
	return GetEnv("OCLC_AVAILABILITY_URL", defaultAvailabilityURL)
}

// GetCirculationBaseURL returns the institution's WMS circulation host,
// e.g. https://128807.share.worldcat.org
func (e Endpoints) GetCirculationBaseURL() string {
	format := GetEnv("OCLC_CIRCULATION_URL_TEMPLATE", defaultCirculationURLFormat)
	if !strings.Contains(format, "%s") {
		return strings.TrimSuffix(format, "/")
	}
	return strings.TrimSuffix(fmt.Sprintf(format, e.GetInstitutionID()), "/")
}

func (e Endpoints) GetNCIPURL() string {
	return GetEnv("OCLC_NCIP_URL", e.file.NCIPAPIURL)
}

func (e Endpoints) GetInstitutionID() string {
	return GetEnv("OCLC_INSTITUTION_ID", e.file.InstitutionID)
}

func (e Endpoints) GetRegistryID() string {
	return GetEnv("OCLC_REGISTRY_ID", e.file.RegistryID)
}

func (Endpoints) GetNCIPAgencyScheme() string {
	return GetEnv("NCIP_AGENCY_SCHEME", defaultNCIPAgencyScheme)
}

func (Endpoints) GetNCIPProfileScheme() string {
	return GetEnv("NCIP_PROFILE_SCHEME", defaultNCIPProfileScheme)
}

func (Endpoints) GetNCIPProfile() string {
	return GetEnv("NCIP_PROFILE", defaultNCIPProfile)
}

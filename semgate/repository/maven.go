package repository

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/spf13/afero"
	"github.com/wagoodman/go-progress"

	"github.com/semgate/semgate/internal/file"
	"github.com/semgate/semgate/internal/log"
	"github.com/semgate/semgate/semgate/artifact"
)

type MavenConfig struct {
	URL    string
	CACert string
}

// Maven is a Repository backed by a remote Maven-layout repository (Maven Central, an
// internal Nexus/Artifactory, or anything else serving the standard directory layout).
type Maven struct {
	baseURL    string
	httpClient *http.Client
	getter     file.Getter
}

func NewMaven(cfg MavenConfig) (*Maven, error) {
	httpClient, err := defaultHTTPClient(afero.NewOsFs(), cfg.CACert)
	if err != nil {
		return nil, err
	}

	return &Maven{
		baseURL:    strings.TrimSuffix(cfg.URL, "/"),
		httpClient: httpClient,
		getter:     file.NewGetter(httpClient),
	}, nil
}

// ListVersions downloads and parses the artifact's maven-metadata.xml. A repository without
// metadata for the artifact (404) has never had the artifact published to it, which reads
// as zero versions rather than an error.
func (m *Maven) ListVersions(coordinate artifact.Coordinate) ([]string, error) {
	metadataURL := m.baseURL + "/" + coordinate.MetadataPath()

	resp, err := m.httpClient.Get(metadataURL)
	if err != nil {
		return nil, fmt.Errorf("unable to download version metadata for %s: %w", coordinate, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		log.Debugf("no version metadata for %s (%s)", coordinate, resp.Status)
		return nil, nil
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("unable to download version metadata for %s: unexpected response %q", coordinate, resp.Status)
	}

	return parseVersionMetadata(resp.Body)
}

func (m *Maven) FetchArtifact(coordinate artifact.Coordinate, dst string, monitors ...*progress.Manual) error {
	artifactURL := m.baseURL + "/" + coordinate.RepositoryPath()
	if err := m.getter.GetFile(dst, artifactURL, monitors...); err != nil {
		return fmt.Errorf("unable to download artifact %s: %w", coordinate, err)
	}
	return nil
}

// versionMetadata is the subset of a maven-metadata.xml document needed for version discovery.
type versionMetadata struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
	Versioning struct {
		Latest   string   `xml:"latest"`
		Release  string   `xml:"release"`
		Versions []string `xml:"versions>version"`
	} `xml:"versioning"`
}

func parseVersionMetadata(reader io.Reader) ([]string, error) {
	var metadata versionMetadata
	if err := xml.NewDecoder(reader).Decode(&metadata); err != nil {
		return nil, fmt.Errorf("unable to parse version metadata: %w", err)
	}

	return metadata.Versioning.Versions, nil
}

func defaultHTTPClient(fs afero.Fs, caCertPath string) (*http.Client, error) {
	httpClient := cleanhttp.DefaultClient()
	httpClient.Timeout = 30 * time.Second
	if caCertPath != "" {
		rootCAs := x509.NewCertPool()

		pemBytes, err := afero.ReadFile(fs, caCertPath)
		if err != nil {
			return nil, fmt.Errorf("unable to configure root CAs for repository client: %w", err)
		}
		rootCAs.AppendCertsFromPEM(pemBytes)

		httpClient.Transport.(*http.Transport).TLSClientConfig = &tls.Config{
			MinVersion: tls.VersionTLS12,
			RootCAs:    rootCAs,
		}
	}
	return httpClient, nil
}

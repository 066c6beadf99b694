//go:build integration

package integration_test

import (
	"context"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/docker/go-connections/nat"
	"github.com/go-viper/mapstructure/v2"
	"github.com/goccy/go-yaml"
	"github.com/openkcm/common-sdk/pkg/commoncfg"
	"github.com/stretchr/testify/require"

	"github.com/openkcm/login-gateway/internal/config"
	"github.com/openkcm/login-gateway/internal/dbtest/valkeytest"
)

const appBaseURI = "http://login-gateway.test/portal"

type infraStat struct {
	ValKeyPort     nat.Port
	ConfigFilePath string
	SocketPath     string
	Procdir        string
	Cfg            config.Config
}

func initInfra(t *testing.T, exeName string) (istat infraStat) {
	t.Helper()

	// Since the config is read from the file $PWD/config.yaml,
	// we're running a process in a subdirectory so that we aren't interferring with the other tests.
	wd, err := os.Getwd()
	require.NoError(t, err, "failed to get wd")
	istat.Procdir = filepath.Join(wd, exeName+"-test")
	istat.ConfigFilePath = filepath.Join(istat.Procdir, "config.yaml")

	err = os.MkdirAll(istat.Procdir, fs.ModePerm)
	require.NoError(t, err, "failed to create a dir for the process")

	err = os.WriteFile(istat.ConfigFilePath, []byte(validConfig), fs.ModePerm)
	require.NoError(t, err, "failed to write config file")

	err = commoncfg.LoadConfig(&istat.Cfg, nil, istat.Procdir)
	require.NoError(t, err, "failed to load config")

	istat.SocketPath = filepath.Join(istat.Procdir, exeName+".sock")
	istat.Cfg.HTTP.Address = "unix://" + istat.SocketPath
	istat.Cfg.Auth.BaseURI = appBaseURI

	return istat
}

func (istat *infraStat) PrepareValKey(t *testing.T) {
	t.Helper()

	vkClient, vkPort := valkeytest.Start(t)
	vkClient.Close()

	istat.ValKeyPort = vkPort

	istat.Cfg.ValKey.Host = commoncfg.SourceRef{Source: "embedded", Value: net.JoinHostPort("localhost", vkPort.Port())}
	istat.Cfg.ValKey.User = commoncfg.SourceRef{Source: "embedded", Value: ""}
	istat.Cfg.ValKey.Password = commoncfg.SourceRef{Source: "embedded", Value: ""}
	istat.Cfg.Auth.Revocation = config.RevocationValkey
}

func (istat *infraStat) PrepareProvider(t *testing.T) *fakeProvider {
	t.Helper()

	p := newFakeProvider(t)

	istat.Cfg.Auth.Provider.Issuer = p.URL
	istat.Cfg.Auth.Provider.AllowHTTPScheme = true
	istat.Cfg.Auth.Provider.AccountClaims = []string{"oid", "tid"}
	istat.Cfg.Auth.Provider.ClientAuth = config.ClientAuth{
		Type:     config.ClientAuthNone,
		ClientID: testClientID,
	}

	return p
}

// PrepareConfig writes a config file for running the test into the ConfigFilePath.
func (istat *infraStat) PrepareConfig(t *testing.T) {
	t.Helper()

	cfgMap := make(map[string]any)
	err := mapstructure.Decode(istat.Cfg, &cfgMap)
	require.NoError(t, err, "failed to decode config")

	configFile, err := os.Create(istat.ConfigFilePath)
	require.NoError(t, err, "failed to create config file")
	defer configFile.Close()

	err = yaml.NewEncoder(configFile).Encode(cfgMap)
	require.NoError(t, err, "failed to write config")
}

func (istat *infraStat) Close(_ context.Context) {
	os.Remove(istat.ConfigFilePath)
	os.RemoveAll(istat.Procdir)
}

package registry

import (
	"errors"
	"testing"

	"github.com/railwayapp/appstack/internal/apps"
	"github.com/railwayapp/appstack/internal/filesystems"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, format Format) (*Store, *filesystems.MemoryFS) {
	t.Helper()
	mfs := filesystems.NewMemoryFS()
	return NewStore(mfs, "eco", format), mfs
}

func TestLayout(t *testing.T) {
	s, _ := newTestStore(t, FormatYAML)

	require.Equal(t, "eco/configs/apps.yaml", s.PreferencesPath())
	require.Equal(t, "eco/chains/era/configs/apps/explorer.yaml", s.ChainDescriptorPath("era", apps.Explorer))
	require.Equal(t, "eco/chains/era/configs/apps/explorer-backend-compose.yaml", s.BackendComposePath("era", apps.Explorer))
	require.Equal(t, "eco/configs/generated/portal-runtime.js", s.RuntimeConfigPath(apps.Portal))
	require.Equal(t, "eco/configs/generated/explorer-compose.yaml", s.ComposePath(apps.Explorer))

	toml, _ := newTestStore(t, FormatTOML)
	require.Equal(t, "eco/chains/era/configs/apps/portal.toml", toml.ChainDescriptorPath("era", apps.Portal))
}

func TestReadWriteRoundTripPerFormat(t *testing.T) {
	descriptor := apps.ExplorerChainConfig{
		Name:               "era",
		L2NetworkName:      "era",
		L2ChainID:          271,
		RPCURL:             "http://127.0.0.1:3050",
		APIURL:             "http://127.0.0.1:3002",
		BaseTokenAddress:   "0x000000000000000000000000000000000000800A",
		Hostnames:          []string{},
		Icon:               "/images/icons/zksync-arrows.svg",
		Published:          true,
		VerificationAPIURL: "http://localhost:3070",
	}

	for _, format := range []Format{FormatYAML, FormatTOML, FormatJSON} {
		t.Run(string(format), func(t *testing.T) {
			s, _ := newTestStore(t, format)
			path := s.ChainDescriptorPath("era", apps.Explorer)

			require.NoError(t, s.Write(path, descriptor))

			var got apps.ExplorerChainConfig
			require.NoError(t, s.Read(path, &got))
			require.Equal(t, descriptor, got)
		})
	}
}

func TestReadDistinguishesNotFoundFromCorrupt(t *testing.T) {
	s, mfs := newTestStore(t, FormatYAML)
	path := s.ChainDescriptorPath("era", apps.Explorer)

	var got apps.ExplorerChainConfig
	err := s.Read(path, &got)
	require.ErrorIs(t, err, ErrNotFound)
	require.False(t, IsCorrupt(err))

	mfs.AddFile(path, []byte("l2ChainId: [not, a, number]"))
	err = s.Read(path, &got)
	require.True(t, IsCorrupt(err))
	require.False(t, errors.Is(err, ErrNotFound))

	mfs.AddFile(path, []byte("   \n"))
	require.True(t, IsCorrupt(s.Read(path, &got)))
}

func TestReadPreferences(t *testing.T) {
	t.Run("missing file is created with defaults", func(t *testing.T) {
		s, mfs := newTestStore(t, FormatYAML)

		prefs, err := s.ReadPreferences()
		require.NoError(t, err)
		require.Equal(t, apps.DefaultPreferences(), prefs)

		written, err := mfs.ReadFile(s.PreferencesPath())
		require.NoError(t, err)
		require.Contains(t, string(written), "http_port: 3010")
	})

	t.Run("existing file is returned as-is", func(t *testing.T) {
		s, mfs := newTestStore(t, FormatYAML)
		mfs.AddFile(s.PreferencesPath(), []byte(`
portal:
  http_port: 4030
  http_url: http://127.0.0.1:4030
explorer:
  http_port: 4010
  http_url: http://127.0.0.1:4010
  chains_enabled: [era]
`))
		prefs, err := s.ReadPreferences()
		require.NoError(t, err)
		require.Equal(t, uint16(4010), prefs.Explorer.HTTPPort)
		require.Equal(t, []string{"era"}, prefs.Explorer.ChainsEnabled)
		require.Equal(t, uint16(4030), prefs.Portal.HTTPPort)
	})

	t.Run("corrupt file is replaced with defaults", func(t *testing.T) {
		s, mfs := newTestStore(t, FormatTOML)
		mfs.AddFile(s.PreferencesPath(), []byte("portal = = broken"))

		prefs, err := s.ReadPreferences()
		require.NoError(t, err)
		require.Equal(t, apps.DefaultPreferences(), prefs)

		var reread apps.EcosystemPreferences
		require.NoError(t, s.Read(s.PreferencesPath(), &reread))
		require.Equal(t, prefs, reread)
	})
}

func TestRuntimeScriptArtifact(t *testing.T) {
	s, mfs := newTestStore(t, FormatYAML)
	cfg, err := apps.NewPortalRuntimeConfig([]apps.PortalChainConfig{{
		Network: apps.PortalNetwork{ID: 271, Key: "era", Name: "era", RPCURL: "http://127.0.0.1:3050"},
		Tokens:  []apps.TokenConfig{{Address: "0x000000000000000000000000000000000000800A", Symbol: "ETH", Decimals: 18}},
	}})
	require.NoError(t, err)

	path := s.RuntimeConfigPath(apps.Portal)
	require.NoError(t, s.Write(path, cfg))

	raw, err := mfs.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(raw), "window['##runtimeConfig'] = ")

	var got apps.PortalRuntimeConfig
	require.NoError(t, s.Read(path, &got))
	require.Equal(t, *cfg, got)
}

func TestWriteUnknownExtension(t *testing.T) {
	s, _ := newTestStore(t, FormatYAML)
	err := s.Write("eco/configs/apps.ini", apps.DefaultPreferences())

	var writeErr *WriteError
	require.ErrorAs(t, err, &writeErr)
	require.Equal(t, "eco/configs/apps.ini", writeErr.Path)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("toml")
	require.NoError(t, err)
	require.Equal(t, FormatTOML, f)

	_, err = ParseFormat("ini")
	require.Error(t, err)
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lex00/wetwire-eks-go/internal/topology"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wetwire-eks.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "default", cfg.Namespace)
	assert.Equal(t, "Images", cfg.Images.Table)
	assert.Equal(t, "PAY_PER_REQUEST", cfg.Images.BillingMode)
	assert.Zero(t, cfg.Images.WaitForActive)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
namespace: demo-cluster
network:
  BaseCidr: "10.1"
  CreatePrivateSubnets: "false"
  PublicSubnetCidrs:
    - 10.1.1.0/24
    - 10.1.2.0/24
images:
  table: Uploads
  region: eu-west-1
  endpoint: http://localhost:8000
  billing_mode: provisioned
  wait_for_active: 2m
ack:
  namespace: ack-system
  region: us-west-2
  zones: [us-west-2b, us-west-2c]
log:
  level: DEBUG
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "demo-cluster", cfg.Namespace)
	assert.Equal(t, "Uploads", cfg.Images.Table)
	assert.Equal(t, "eu-west-1", cfg.Images.Region)
	assert.Equal(t, "http://localhost:8000", cfg.Images.Endpoint)
	assert.Equal(t, "PROVISIONED", cfg.Images.BillingMode)
	assert.Equal(t, 2*time.Minute, cfg.Images.WaitForActive)
	assert.Equal(t, "ack-system", cfg.ACK.Namespace)
	assert.Equal(t, "us-west-2", cfg.ACK.Region)
	assert.Equal(t, []string{"us-west-2b", "us-west-2c"}, cfg.ACK.Zones)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)

	opts, err := cfg.TopologyOptions()
	require.NoError(t, err)
	assert.Equal(t, "demo-cluster", opts.Namespace)
	assert.Equal(t, "10.1", opts.BaseCIDR)
	assert.False(t, opts.CreatePrivateSubnets)
	assert.Equal(t, []string{"10.1.1.0/24", "10.1.2.0/24"}, opts.PublicSubnetCIDRs)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "namespace: demo\nimages:\n  table: FromFile\n")
	t.Setenv("WETWIRE_EKS_IMAGES_TABLE", "FromEnv")
	t.Setenv("WETWIRE_EKS_LOG_LEVEL", "warn")
	t.Setenv("WETWIRE_EKS_NETWORK_BASECIDR", "172.16")
	t.Setenv("WETWIRE_EKS_ACK_REGION", "ap-south-1")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "FromEnv", cfg.Images.Table)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "ap-south-1", cfg.ACK.Region)

	opts, err := cfg.TopologyOptions()
	require.NoError(t, err)
	assert.Equal(t, "172.16", opts.BaseCIDR)
	assert.True(t, opts.CreatePrivateSubnets)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeConfig(t, "namespace: [unterminated\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{
			name:    "billing mode",
			content: "images:\n  billing_mode: ON_DEMAND\n",
			want:    []string{"validation error:", "Config.Images.BillingMode", "PAY_PER_REQUEST PROVISIONED"},
		},
		{
			name:    "endpoint",
			content: "images:\n  endpoint: not a url\n",
			want:    []string{"Config.Images.Endpoint", "valid URL"},
		},
		{
			name:    "several",
			content: "log:\n  level: loud\n  format: xml\n",
			want:    []string{"validation errors:", "Config.Log.Level", "Config.Log.Format"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			for _, want := range tt.want {
				assert.Contains(t, err.Error(), want)
			}
		})
	}
}

func TestTopologyOptions_MissingBaseCIDR(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	_, err = cfg.TopologyOptions()
	assert.ErrorIs(t, err, topology.ErrMissingVariable)
}

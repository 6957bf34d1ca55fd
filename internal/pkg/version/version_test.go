package version

import (
	"runtime"
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnrich(t *testing.T) {
	orig := readBuildInfo
	t.Cleanup(func() { readBuildInfo = orig })

	tests := []struct {
		name      string
		in        Info
		buildInfo *debug.BuildInfo
		want      Info
	}{
		{
			name:      "빌드 정보 없음",
			in:        Info{},
			buildInfo: nil,
			want:      Info{Version: unknown, Commit: unknown, BuildNumber: "0"},
		},
		{
			name: "VCS 메타데이터로 보강",
			in:   Info{},
			buildInfo: &debug.BuildInfo{
				Main: debug.Module{Version: "v1.3.0"},
				Settings: []debug.BuildSetting{
					{Key: "vcs.revision", Value: "abcdef1234567"},
					{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
				},
			},
			want: Info{Version: "v1.3.0", Commit: "abcdef1234567", BuildDate: "2026-01-02T03:04:05Z", BuildNumber: "0"},
		},
		{
			name: "주입된 값 우선",
			in:   Info{Version: "v2.0.0", Commit: "1111111", BuildNumber: "42"},
			buildInfo: &debug.BuildInfo{
				Main:     debug.Module{Version: "(devel)"},
				Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "2222222"}},
			},
			want: Info{Version: "v2.0.0", Commit: "1111111", BuildNumber: "42"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			readBuildInfo = func() (*debug.BuildInfo, bool) {
				return tt.buildInfo, tt.buildInfo != nil
			}

			got := enrich(tt.in)

			tt.want.GoVersion = runtime.Version()
			tt.want.OS = runtime.GOOS
			tt.want.Arch = runtime.GOARCH
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInfo_String(t *testing.T) {
	t.Parallel()

	i := Info{Version: "v1.0.0", Commit: "abcdef1234", BuildNumber: "7", GoVersion: "go1.24.0", OS: "linux", Arch: "amd64"}
	assert.Equal(t, "v1.0.0 (commit: abcdef1, build: 7, go1.24.0 linux/amd64)", i.String())
}

func TestGet(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Get(), Get())
	assert.NotEmpty(t, Get().Version)
}

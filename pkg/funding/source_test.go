package funding

import (
	"reflect"
	"testing"
)

func TestExtractSources(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    []Source
		wantErr bool
	}{
		{
			name: "empty url yields nothing",
			url:  "",
			want: nil,
		},
		{
			name: "non-forge host yields nothing",
			url:  "https://gitlab.com/someone/project",
			want: nil,
		},
		{
			name: "forge repo yields repo and owner",
			url:  "https://github.com/someone/project",
			want: []Source{
				{Kind: SourceRepo, Owner: "someone", Name: "project"},
				{Kind: SourceOwner, Owner: "someone"},
			},
		},
		{
			name: "www prefix accepted",
			url:  "https://www.github.com/someone/project",
			want: []Source{
				{Kind: SourceRepo, Owner: "someone", Name: "project"},
				{Kind: SourceOwner, Owner: "someone"},
			},
		},
		{
			name: "git suffix trimmed",
			url:  "https://github.com/someone/project.git",
			want: []Source{
				{Kind: SourceRepo, Owner: "someone", Name: "project"},
				{Kind: SourceOwner, Owner: "someone"},
			},
		},
		{
			name: "extra path segments ignored",
			url:  "https://github.com/someone/project/tree/main/sub",
			want: []Source{
				{Kind: SourceRepo, Owner: "someone", Name: "project"},
				{Kind: SourceOwner, Owner: "someone"},
			},
		},
		{
			name:    "owner without repo is malformed",
			url:     "https://github.com/someone",
			wantErr: true,
		},
		{
			name:    "bare host is malformed",
			url:     "https://github.com/",
			wantErr: true,
		},
		{
			name:    "unparseable url is an error",
			url:     "https://github.com/some\none/project",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractSources(tt.url)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ExtractSources(%q) = %+v, want error", tt.url, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ExtractSources(%q) error: %v", tt.url, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractSources(%q) = %+v, want %+v", tt.url, got, tt.want)
			}
		})
	}
}

func TestCollectSources(t *testing.T) {
	pkgs := []Package{
		{ID: "ws", Name: "example.com/ws", Version: "", Repository: "https://github.com/me/ws", Workspace: true},
		{ID: "a@v1", Name: "a", Version: "v1", Repository: "https://github.com/shared/repo"},
		{ID: "b@v2", Name: "b", Version: "v2", Repository: "https://github.com/shared/repo"},
		{ID: "c@v3", Name: "c", Version: "v3", Repository: "https://crates.example/not-forge"},
		{ID: "d@v4", Name: "d", Version: "v4"},
	}

	sources, err := CollectSources(pkgs)
	if err != nil {
		t.Fatalf("CollectSources: %v", err)
	}

	// The shared repo and its owner; nothing for the workspace, the
	// non-forge host, or the package without a repository.
	if len(sources) != 2 {
		t.Fatalf("got %d sources, want 2: %+v", len(sources), sources)
	}

	repo := Source{Kind: SourceRepo, Owner: "shared", Name: "repo"}
	pkgsFor, ok := sources[repo]
	if !ok {
		t.Fatalf("missing repo source %+v", repo)
	}
	if len(pkgsFor) != 2 {
		t.Errorf("repo source has %d packages, want 2", len(pkgsFor))
	}
	if _, ok := pkgsFor[PackageRef{ID: "a@v1", Name: "a", Version: "v1"}]; !ok {
		t.Error("package a missing from shared repo source")
	}

	owner := Source{Kind: SourceOwner, Owner: "shared"}
	if _, ok := sources[owner]; !ok {
		t.Fatalf("missing owner source %+v", owner)
	}
}

func TestCollectSourcesPropagatesErrors(t *testing.T) {
	pkgs := []Package{
		{ID: "bad@v1", Name: "bad", Version: "v1", Repository: "https://github.com/loneowner"},
	}
	if _, err := CollectSources(pkgs); err == nil {
		t.Fatal("expected error for a forge URL without a repository segment")
	}
}

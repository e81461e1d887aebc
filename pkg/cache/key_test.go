package cache

import (
	"net/url"
	"testing"
)

func TestPageKey_String(t *testing.T) {
	tests := []struct {
		name string
		key  PageKey
		want string
	}{
		{
			name: "path only",
			key: PageKey{
				Path: "/api/v4/projects",
			},
			want: "listapi:api/v4/projects",
		},
		{
			name: "offset page",
			key: PageKey{
				Path: "/api/v4/projects",
				Query: url.Values{
					"page":     []string{"2"},
					"per_page": []string{"20"},
				},
			},
			want: "listapi:api/v4/projects:page=2:per_page=20",
		},
		{
			name: "keyset page",
			key: PageKey{
				Path: "/api/v4/users",
				Query: url.Values{
					"pagination": []string{"keyset"},
					"cursor":     []string{"abc"},
					"per_page":   []string{"20"},
				},
			},
			want: "listapi:api/v4/users:cursor=abc:pagination=keyset:per_page=20",
		},
		{
			name: "query params sorted deterministically",
			key: PageKey{
				Path: "/api/v4/projects",
				Query: url.Values{
					"sort":     []string{"asc"},
					"order_by": []string{"id"},
					"page":     []string{"1"},
				},
			},
			want: "listapi:api/v4/projects:order_by=id:page=1:sort=asc",
		},
		{
			name: "trailing slash normalized",
			key: PageKey{
				Path: "/api/v4/projects/",
			},
			want: "listapi:api/v4/projects",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.key.String()
			if got != tt.want {
				t.Errorf("PageKey.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestPageKey_Determinism ensures the same input always produces the same key.
func TestPageKey_Determinism(t *testing.T) {
	key := PageKey{
		Path: "/api/v4/projects",
		Query: url.Values{
			"page":     []string{"3"},
			"per_page": []string{"50"},
			"order_by": []string{"id"},
			"sort":     []string{"asc"},
		},
	}

	first := key.String()
	for i := 0; i < 10; i++ {
		if got := key.String(); got != first {
			t.Errorf("iteration %d: String() = %v, want %v (not deterministic)", i, got, first)
		}
	}
}

package broadcast

import "testing"

func TestDescribe(t *testing.T) {
	tests := []struct {
		ev   Event
		want string
	}{
		{SiteAdded{Site: Site{ID: "s1", Host: "news.example"}}, "site news.example added"},
		{SiteAdded{Site: Site{ID: "s1"}}, "site s1 added"},
		{SiteUpdated{Site: Site{ID: "s1", Host: "news.example"}}, "site news.example updated"},
		{SiteDeleted{SiteID: "s1"}, "site s1 deleted"},
		{GroupAdded{Group: Group{ID: "g1", Name: "Social"}}, `group "Social" added`},
		{GroupUpdated{Group: Group{ID: "g1"}}, "group g1 updated"},
		{GroupDeleted{GroupID: "g1"}, "group g1 deleted"},
		{SiteAddedToGroup{SiteID: "s1", GroupID: "g1"}, "site s1 joined group g1"},
		{SiteRemovedFromGroup{SiteID: "s1", GroupID: "g1"}, "site s1 left group g1"},
		{QuickLimitAdded{Site: Site{ID: "s2", Host: "video.example"}}, "quick limit on video.example"},
		{nil, ""},
	}

	for _, tt := range tests {
		if got := Describe(tt.ev); got != tt.want {
			t.Errorf("Describe(%#v) = %q, want %q", tt.ev, got, tt.want)
		}
	}
}

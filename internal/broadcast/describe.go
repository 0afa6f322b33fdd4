package broadcast

import "fmt"

// Describe renders a one-line human summary of ev for feeds and logs.
func Describe(ev Event) string {
	switch e := ev.(type) {
	case SiteAdded:
		return "site " + siteLabel(e.Site) + " added"
	case SiteUpdated:
		return "site " + siteLabel(e.Site) + " updated"
	case SiteDeleted:
		return "site " + e.SiteID + " deleted"
	case GroupAdded:
		return "group " + groupLabel(e.Group) + " added"
	case GroupUpdated:
		return "group " + groupLabel(e.Group) + " updated"
	case GroupDeleted:
		return "group " + e.GroupID + " deleted"
	case SiteAddedToGroup:
		return fmt.Sprintf("site %s joined group %s", e.SiteID, e.GroupID)
	case SiteRemovedFromGroup:
		return fmt.Sprintf("site %s left group %s", e.SiteID, e.GroupID)
	case QuickLimitAdded:
		return "quick limit on " + siteLabel(e.Site)
	case nil:
		return ""
	default:
		return string(ev.Name())
	}
}

func siteLabel(s Site) string {
	if s.Host != "" {
		return s.Host
	}
	return s.ID
}

func groupLabel(g Group) string {
	if g.Name != "" {
		return fmt.Sprintf("%q", g.Name)
	}
	return g.ID
}

package broadcast

// EventName identifies a broadcast event on the wire.
type EventName string

// The closed set of events emitted by the background process.
const (
	EventSiteAdded            EventName = "siteAdded"
	EventSiteUpdated          EventName = "siteUpdated"
	EventSiteDeleted          EventName = "siteDeleted"
	EventGroupAdded           EventName = "groupAdded"
	EventGroupUpdated         EventName = "groupUpdated"
	EventGroupDeleted         EventName = "groupDeleted"
	EventSiteAddedToGroup     EventName = "siteAddedToGroup"
	EventSiteRemovedFromGroup EventName = "siteRemovedFromGroup"
	EventQuickLimitAdded      EventName = "quickLimitAdded"
)

// EventNames returns every known event name in declaration order.
func EventNames() []EventName {
	return []EventName{
		EventSiteAdded,
		EventSiteUpdated,
		EventSiteDeleted,
		EventGroupAdded,
		EventGroupUpdated,
		EventGroupDeleted,
		EventSiteAddedToGroup,
		EventSiteRemovedFromGroup,
		EventQuickLimitAdded,
	}
}

// Known reports whether n is part of the closed event set.
func (n EventName) Known() bool {
	for _, known := range EventNames() {
		if n == known {
			return true
		}
	}
	return false
}

// Event is implemented only by the payload types in this file.
type Event interface {
	// Name returns the wire name of the event.
	Name() EventName
	isEvent()
}

// Site mirrors a limited site as the background process reports it.
type Site struct {
	ID               string `json:"id"`
	Host             string `json:"host"`
	TimeLimitMinutes int    `json:"timeLimitMinutes,omitempty"`
	VisitLimit       int    `json:"visitLimit,omitempty"`
	GroupID          string `json:"groupId,omitempty"`
	MessageID        string `json:"messageId,omitempty"`
}

// SitePatch is the partial update the background process applied to a site.
// Nil fields were not part of the update.
type SitePatch struct {
	Host             *string `json:"host,omitempty"`
	TimeLimitMinutes *int    `json:"timeLimitMinutes,omitempty"`
	VisitLimit       *int    `json:"visitLimit,omitempty"`
	GroupID          *string `json:"groupId,omitempty"`
	MessageID        *string `json:"messageId,omitempty"`
}

// Group mirrors a site category.
type Group struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	TimeLimitMinutes int      `json:"timeLimitMinutes,omitempty"`
	VisitLimit       int      `json:"visitLimit,omitempty"`
	SiteIDs          []string `json:"siteIds,omitempty"`
	MessageID        string   `json:"messageId,omitempty"`
}

// GroupPatch is the partial update the background process applied to a group.
type GroupPatch struct {
	Name             *string `json:"name,omitempty"`
	TimeLimitMinutes *int    `json:"timeLimitMinutes,omitempty"`
	VisitLimit       *int    `json:"visitLimit,omitempty"`
	MessageID        *string `json:"messageId,omitempty"`
}

// SiteAdded announces a new site.
type SiteAdded struct {
	Site Site `json:"site"`
}

// SiteUpdated carries the full updated site and the patch that produced it.
type SiteUpdated struct {
	Site  Site      `json:"site"`
	Patch SitePatch `json:"updates"`
}

// SiteDeleted carries only the identifier of the removed site.
type SiteDeleted struct {
	SiteID string `json:"siteId"`
}

// GroupAdded announces a new group.
type GroupAdded struct {
	Group Group `json:"group"`
}

// GroupUpdated carries the full updated group and the patch that produced it.
type GroupUpdated struct {
	Group Group      `json:"group"`
	Patch GroupPatch `json:"updates"`
}

// GroupDeleted carries only the identifier of the removed group.
type GroupDeleted struct {
	GroupID string `json:"groupId"`
}

// SiteAddedToGroup announces a membership change.
type SiteAddedToGroup struct {
	SiteID  string `json:"siteId"`
	GroupID string `json:"groupId"`
}

// SiteRemovedFromGroup announces a membership change.
type SiteRemovedFromGroup struct {
	SiteID  string `json:"siteId"`
	GroupID string `json:"groupId"`
}

// QuickLimitAdded announces a site created through the quick-limit shortcut.
type QuickLimitAdded struct {
	Site Site `json:"site"`
}

func (SiteAdded) Name() EventName            { return EventSiteAdded }
func (SiteUpdated) Name() EventName          { return EventSiteUpdated }
func (SiteDeleted) Name() EventName          { return EventSiteDeleted }
func (GroupAdded) Name() EventName           { return EventGroupAdded }
func (GroupUpdated) Name() EventName         { return EventGroupUpdated }
func (GroupDeleted) Name() EventName         { return EventGroupDeleted }
func (SiteAddedToGroup) Name() EventName     { return EventSiteAddedToGroup }
func (SiteRemovedFromGroup) Name() EventName { return EventSiteRemovedFromGroup }
func (QuickLimitAdded) Name() EventName      { return EventQuickLimitAdded }

func (SiteAdded) isEvent()            {}
func (SiteUpdated) isEvent()          {}
func (SiteDeleted) isEvent()          {}
func (GroupAdded) isEvent()           {}
func (GroupUpdated) isEvent()         {}
func (GroupDeleted) isEvent()         {}
func (SiteAddedToGroup) isEvent()     {}
func (SiteRemovedFromGroup) isEvent() {}
func (QuickLimitAdded) isEvent()      {}

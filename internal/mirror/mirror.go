// Package mirror keeps a surface's local view of sites and groups in step
// with the background process, using nothing but broadcasts.
package mirror

import (
	"slices"
	"sort"
	"sync"

	"github.com/Iron-Ham/focusgate/internal/broadcast"
	"github.com/Iron-Ham/focusgate/internal/errors"
)

// Snapshot seeds a Mirror, typically from the last state the surface saw.
type Snapshot struct {
	Sites  []broadcast.Site  `json:"sites"`
	Groups []broadcast.Group `json:"groups"`
}

// Counts summarizes the mirror for display.
type Counts struct {
	Sites     int
	Groups    int
	Ungrouped int
}

// Mirror is an in-memory copy of sites and groups. It is safe for
// concurrent use.
type Mirror struct {
	mu      sync.RWMutex
	sites   map[string]broadcast.Site
	groups  map[string]broadcast.Group
	version uint64
}

// New creates a Mirror seeded from snap. A nil snap starts empty.
func New(snap *Snapshot) *Mirror {
	m := &Mirror{
		sites:  make(map[string]broadcast.Site),
		groups: make(map[string]broadcast.Group),
	}
	if snap != nil {
		for _, g := range snap.Groups {
			g.SiteIDs = slices.Clone(g.SiteIDs)
			m.groups[g.ID] = g
		}
		for _, s := range snap.Sites {
			m.sites[s.ID] = s
		}
	}
	return m
}

// Handlers returns a handler set that applies every broadcast kind to the
// mirror. Events that reference unknown sites or groups fail with a
// NotFoundError.
func (m *Mirror) Handlers() broadcast.Handlers {
	return broadcast.Handlers{
		OnSiteAdded:            func(e broadcast.SiteAdded) error { return m.addSite(e.Site) },
		OnQuickLimitAdded:      func(e broadcast.QuickLimitAdded) error { return m.addSite(e.Site) },
		OnSiteUpdated:          m.updateSite,
		OnSiteDeleted:          m.deleteSite,
		OnGroupAdded:           m.addGroup,
		OnGroupUpdated:         m.updateGroup,
		OnGroupDeleted:         m.deleteGroup,
		OnSiteAddedToGroup:     m.joinGroup,
		OnSiteRemovedFromGroup: m.leaveGroup,
	}
}

// Site returns the site with id.
func (m *Mirror) Site(id string) (broadcast.Site, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sites[id]
	return s, ok
}

// Group returns the group with id.
func (m *Mirror) Group(id string) (broadcast.Group, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.groups[id]
	if ok {
		g.SiteIDs = slices.Clone(g.SiteIDs)
	}
	return g, ok
}

// Sites returns all sites sorted by host, then id.
func (m *Mirror) Sites() []broadcast.Site {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]broadcast.Site, 0, len(m.sites))
	for _, s := range m.sites {
		result = append(result, s)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Host != result[j].Host {
			return result[i].Host < result[j].Host
		}
		return result[i].ID < result[j].ID
	})
	return result
}

// Groups returns all groups sorted by name, then id.
func (m *Mirror) Groups() []broadcast.Group {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]broadcast.Group, 0, len(m.groups))
	for _, g := range m.groups {
		g.SiteIDs = slices.Clone(g.SiteIDs)
		result = append(result, g)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].ID < result[j].ID
	})
	return result
}

// Counts returns site, group and ungrouped-site totals.
func (m *Mirror) Counts() Counts {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c := Counts{Sites: len(m.sites), Groups: len(m.groups)}
	for _, s := range m.sites {
		if s.GroupID == "" {
			c.Ungrouped++
		}
	}
	return c
}

// Version increments on every applied change.
func (m *Mirror) Version() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.version
}

// Snapshot returns the current contents.
func (m *Mirror) Snapshot() Snapshot {
	return Snapshot{Sites: m.Sites(), Groups: m.Groups()}
}

func (m *Mirror) addSite(s broadcast.Site) error {
	if s.ID == "" {
		return errors.NewValidationError("site id is required").WithField("site.id")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if prev, ok := m.sites[s.ID]; ok && prev.GroupID != s.GroupID {
		m.removeMemberLocked(prev.GroupID, s.ID)
	}
	if s.GroupID != "" {
		if _, ok := m.groups[s.GroupID]; !ok {
			// Membership arrives separately for groups we have not seen.
			s.GroupID = ""
		} else {
			m.addMemberLocked(s.GroupID, s.ID)
		}
	}
	m.sites[s.ID] = s
	m.version++
	return nil
}

func (m *Mirror) updateSite(e broadcast.SiteUpdated) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	prev, ok := m.sites[e.Site.ID]
	if !ok {
		return errors.NewNotFoundError("site", e.Site.ID)
	}
	next := e.Site
	if next.GroupID != prev.GroupID {
		m.removeMemberLocked(prev.GroupID, next.ID)
		if _, ok := m.groups[next.GroupID]; ok {
			m.addMemberLocked(next.GroupID, next.ID)
		} else {
			next.GroupID = ""
		}
	}
	m.sites[next.ID] = next
	m.version++
	return nil
}

func (m *Mirror) deleteSite(e broadcast.SiteDeleted) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	prev, ok := m.sites[e.SiteID]
	if !ok {
		return errors.NewNotFoundError("site", e.SiteID)
	}
	m.removeMemberLocked(prev.GroupID, prev.ID)
	delete(m.sites, e.SiteID)
	m.version++
	return nil
}

// addGroup stores a new group. Re-adding a known ID replaces it the way an
// update does.
func (m *Mirror) addGroup(e broadcast.GroupAdded) error {
	if e.Group.ID == "" {
		return errors.NewValidationError("group id is required").WithField("group.id")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	prev, ok := m.groups[e.Group.ID]
	m.putGroupLocked(prev, ok, e.Group)
	return nil
}

func (m *Mirror) updateGroup(e broadcast.GroupUpdated) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	prev, ok := m.groups[e.Group.ID]
	if !ok {
		return errors.NewNotFoundError("group", e.Group.ID)
	}
	m.putGroupLocked(prev, true, e.Group)
	return nil
}

// putGroupLocked stores next, clearing GroupID on sites that were in prev
// but are not listed in next.
func (m *Mirror) putGroupLocked(prev broadcast.Group, existed bool, next broadcast.Group) {
	next.SiteIDs = m.knownSitesLocked(next.SiteIDs)
	if existed {
		for _, id := range prev.SiteIDs {
			if !slices.Contains(next.SiteIDs, id) {
				m.clearSiteGroupLocked(id, prev.ID)
			}
		}
	}
	m.groups[next.ID] = next
	for _, id := range next.SiteIDs {
		m.assignLocked(id, next.ID)
	}
	m.version++
}

func (m *Mirror) deleteGroup(e broadcast.GroupDeleted) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	prev, ok := m.groups[e.GroupID]
	if !ok {
		return errors.NewNotFoundError("group", e.GroupID)
	}
	for _, id := range prev.SiteIDs {
		m.clearSiteGroupLocked(id, prev.ID)
	}
	delete(m.groups, e.GroupID)
	m.version++
	return nil
}

func (m *Mirror) joinGroup(e broadcast.SiteAddedToGroup) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.requireLocked(e.SiteID, e.GroupID); err != nil {
		return err
	}
	m.assignLocked(e.SiteID, e.GroupID)
	m.version++
	return nil
}

func (m *Mirror) leaveGroup(e broadcast.SiteRemovedFromGroup) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.requireLocked(e.SiteID, e.GroupID); err != nil {
		return err
	}
	m.removeMemberLocked(e.GroupID, e.SiteID)
	m.clearSiteGroupLocked(e.SiteID, e.GroupID)
	m.version++
	return nil
}

func (m *Mirror) requireLocked(siteID, groupID string) error {
	if _, ok := m.sites[siteID]; !ok {
		return errors.NewNotFoundError("site", siteID)
	}
	if _, ok := m.groups[groupID]; !ok {
		return errors.NewNotFoundError("group", groupID)
	}
	return nil
}

// assignLocked moves a site into groupID, leaving any previous group. A site
// belongs to at most one group.
func (m *Mirror) assignLocked(siteID, groupID string) {
	s, ok := m.sites[siteID]
	if !ok {
		return
	}
	if s.GroupID != "" && s.GroupID != groupID {
		m.removeMemberLocked(s.GroupID, siteID)
	}
	s.GroupID = groupID
	m.sites[siteID] = s
	m.addMemberLocked(groupID, siteID)
}

func (m *Mirror) clearSiteGroupLocked(siteID, groupID string) {
	if s, ok := m.sites[siteID]; ok && s.GroupID == groupID {
		s.GroupID = ""
		m.sites[siteID] = s
	}
}

func (m *Mirror) addMemberLocked(groupID, siteID string) {
	g, ok := m.groups[groupID]
	if !ok || slices.Contains(g.SiteIDs, siteID) {
		return
	}
	g.SiteIDs = append(slices.Clone(g.SiteIDs), siteID)
	m.groups[groupID] = g
}

func (m *Mirror) removeMemberLocked(groupID, siteID string) {
	g, ok := m.groups[groupID]
	if !ok {
		return
	}
	i := slices.Index(g.SiteIDs, siteID)
	if i < 0 {
		return
	}
	g.SiteIDs = slices.Delete(slices.Clone(g.SiteIDs), i, i+1)
	m.groups[groupID] = g
}

func (m *Mirror) knownSitesLocked(ids []string) []string {
	var known []string
	for _, id := range ids {
		if _, ok := m.sites[id]; ok && !slices.Contains(known, id) {
			known = append(known, id)
		}
	}
	return known
}

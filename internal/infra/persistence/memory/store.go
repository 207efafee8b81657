// Package memory provides an in-memory implementation of the repository
// contracts. It backs local development without PostgreSQL and the usecase
// test suites. Transactions are serialized on one mutex and run against a
// deep copy of the dataset, so a failed transaction leaves no trace.
package memory

import (
	"sync"

	"leadtrack/internal/domain/entity"
	"leadtrack/internal/domain/repository"

	"github.com/google/uuid"
)

// dataset is the full state snapshot. All reads and writes go through deep
// copies so callers never alias stored entities.
type dataset struct {
	persons      map[uuid.UUID]*entity.Person
	identityKeys map[string]*entity.IdentityKey
	leads        map[uuid.UUID]*entity.Lead
	leadEvents   []*entity.LeadEvent
	links        map[uuid.UUID]*entity.CampaignLink
	linkCodes    map[string]*entity.LinkCode
	clickEvents  []*entity.ClickEvent
	campaigns    map[uuid.UUID]*entity.Campaign
	intakes      map[uuid.UUID]*entity.Intake
}

func newDataset() *dataset {
	return &dataset{
		persons:      make(map[uuid.UUID]*entity.Person),
		identityKeys: make(map[string]*entity.IdentityKey),
		leads:        make(map[uuid.UUID]*entity.Lead),
		links:        make(map[uuid.UUID]*entity.CampaignLink),
		linkCodes:    make(map[string]*entity.LinkCode),
		campaigns:    make(map[uuid.UUID]*entity.Campaign),
		intakes:      make(map[uuid.UUID]*entity.Intake),
	}
}

// clone deep-copies the dataset for transactional isolation.
func (d *dataset) clone() *dataset {
	out := newDataset()
	for id, p := range d.persons {
		out.persons[id] = copyPerson(p)
	}
	for key, k := range d.identityKeys {
		out.identityKeys[key] = copyIdentityKey(k)
	}
	for id, l := range d.leads {
		out.leads[id] = copyLead(l)
	}
	out.leadEvents = make([]*entity.LeadEvent, 0, len(d.leadEvents))
	for _, e := range d.leadEvents {
		out.leadEvents = append(out.leadEvents, copyLeadEvent(e))
	}
	for id, l := range d.links {
		out.links[id] = copyLink(l)
	}
	for code, c := range d.linkCodes {
		out.linkCodes[code] = copyLinkCode(c)
	}
	out.clickEvents = make([]*entity.ClickEvent, 0, len(d.clickEvents))
	for _, e := range d.clickEvents {
		out.clickEvents = append(out.clickEvents, copyClickEvent(e))
	}
	for id, c := range d.campaigns {
		out.campaigns[id] = copyCampaign(c)
	}
	for id, i := range d.intakes {
		out.intakes[id] = copyIntake(i)
	}

	return out
}

// Store is the shared in-memory database.
type Store struct {
	mu   sync.Mutex
	data *dataset
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{data: newDataset()}
}

// accessor abstracts how a repository reaches the dataset: live repos lock the
// store mutex per call, transaction-bound repos run on the working copy that
// Execute already guards.
type accessor interface {
	with(fn func(d *dataset) error) error
}

type liveAccess struct {
	store *Store
}

func (a liveAccess) with(fn func(d *dataset) error) error {
	a.store.mu.Lock()
	defer a.store.mu.Unlock()

	return fn(a.store.data)
}

type txAccess struct {
	data *dataset
}

func (a txAccess) with(fn func(d *dataset) error) error {
	return fn(a.data)
}

// PersonRepo returns a person repository over the live dataset.
func (s *Store) PersonRepo() repository.PersonRepository {
	return &personRepository{access: liveAccess{store: s}}
}

// LeadRepo returns a lead repository over the live dataset.
func (s *Store) LeadRepo() repository.LeadRepository {
	return &leadRepository{access: liveAccess{store: s}}
}

// LinkRepo returns a link repository over the live dataset.
func (s *Store) LinkRepo() repository.LinkRepository {
	return &linkRepository{access: liveAccess{store: s}}
}

// CampaignRepo returns a campaign repository over the live dataset.
func (s *Store) CampaignRepo() repository.CampaignRepository {
	return &campaignRepository{access: liveAccess{store: s}}
}

// txRepositoryFactory binds repositories to one transaction's working copy.
type txRepositoryFactory struct {
	data *dataset
}

func (f *txRepositoryFactory) PersonRepo() repository.PersonRepository {
	return &personRepository{access: txAccess{data: f.data}}
}

func (f *txRepositoryFactory) LeadRepo() repository.LeadRepository {
	return &leadRepository{access: txAccess{data: f.data}}
}

func (f *txRepositoryFactory) LinkRepo() repository.LinkRepository {
	return &linkRepository{access: txAccess{data: f.data}}
}

func (f *txRepositoryFactory) CampaignRepo() repository.CampaignRepository {
	return &campaignRepository{access: txAccess{data: f.data}}
}

// --- Deep copy helpers ---

func copyPerson(p *entity.Person) *entity.Person {
	if p == nil {
		return nil
	}
	out := *p
	out.IdentityKeys = append([]string(nil), p.IdentityKeys...)
	if p.MergedInto != nil {
		v := *p.MergedInto
		out.MergedInto = &v
	}

	return &out
}

func copyIdentityKey(k *entity.IdentityKey) *entity.IdentityKey {
	if k == nil {
		return nil
	}
	out := *k

	return &out
}

func copyLead(l *entity.Lead) *entity.Lead {
	if l == nil {
		return nil
	}
	out := *l
	out.Documents = append([]entity.LeadDocument(nil), l.Documents...)
	if l.OwnerID != nil {
		v := *l.OwnerID
		out.OwnerID = &v
	}
	out.Attribution = copyAttribution(l.Attribution)

	return &out
}

func copyAttribution(a entity.Attribution) entity.Attribution {
	out := a
	if a.CampaignID != nil {
		v := *a.CampaignID
		out.CampaignID = &v
	}
	if a.CampaignLinkID != nil {
		v := *a.CampaignLinkID
		out.CampaignLinkID = &v
	}
	if a.BDUserID != nil {
		v := *a.BDUserID
		out.BDUserID = &v
	}

	return out
}

func copyLeadEvent(e *entity.LeadEvent) *entity.LeadEvent {
	if e == nil {
		return nil
	}
	out := *e
	if e.ActorID != nil {
		v := *e.ActorID
		out.ActorID = &v
	}
	if e.Payload != nil {
		out.Payload = make(map[string]any, len(e.Payload))
		for k, v := range e.Payload {
			out.Payload[k] = v
		}
	}

	return &out
}

func copyLink(l *entity.CampaignLink) *entity.CampaignLink {
	if l == nil {
		return nil
	}
	out := *l
	if l.BDUserID != nil {
		v := *l.BDUserID
		out.BDUserID = &v
	}

	return &out
}

func copyLinkCode(c *entity.LinkCode) *entity.LinkCode {
	if c == nil {
		return nil
	}
	out := *c

	return &out
}

func copyClickEvent(e *entity.ClickEvent) *entity.ClickEvent {
	if e == nil {
		return nil
	}
	out := *e

	return &out
}

func copyCampaign(c *entity.Campaign) *entity.Campaign {
	if c == nil {
		return nil
	}
	out := *c

	return &out
}

func copyIntake(i *entity.Intake) *entity.Intake {
	if i == nil {
		return nil
	}
	out := *i
	if i.CampaignID != nil {
		v := *i.CampaignID
		out.CampaignID = &v
	}

	return &out
}

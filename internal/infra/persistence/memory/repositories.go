package memory

import (
	"context"
	"time"

	"leadtrack/internal/domain/entity"
	"leadtrack/internal/domain/repository"

	"github.com/google/uuid"
)

// personRepository implements repository.PersonRepository in memory.
type personRepository struct {
	access accessor
}

func (repo *personRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Person, error) {
	var found *entity.Person
	err := repo.access.with(func(d *dataset) error {
		p, ok := d.persons[id]
		if !ok {
			return repository.ErrPersonNotFound
		}
		found = copyPerson(p)

		return nil
	})

	return found, err
}

func (repo *personRepository) Create(ctx context.Context, person *entity.Person) error {
	return repo.access.with(func(d *dataset) error {
		if person.ID == uuid.Nil {
			person.ID = uuid.New()
		}
		now := time.Now()
		person.CreatedAt = now
		person.UpdatedAt = now
		d.persons[person.ID] = copyPerson(person)

		return nil
	})
}

func (repo *personRepository) Update(ctx context.Context, person *entity.Person) error {
	return repo.access.with(func(d *dataset) error {
		if _, ok := d.persons[person.ID]; !ok {
			return repository.ErrPersonNotFound
		}
		person.UpdatedAt = time.Now()
		d.persons[person.ID] = copyPerson(person)

		return nil
	})
}

func (repo *personRepository) FindIdentityKey(ctx context.Context, key string) (*entity.IdentityKey, error) {
	var found *entity.IdentityKey
	err := repo.access.with(func(d *dataset) error {
		k, ok := d.identityKeys[key]
		if !ok {
			return repository.ErrIdentityKeyNotFound
		}
		found = copyIdentityKey(k)

		return nil
	})

	return found, err
}

func (repo *personRepository) CreateIdentityKey(ctx context.Context, key *entity.IdentityKey) error {
	return repo.access.with(func(d *dataset) error {
		if _, ok := d.identityKeys[key.Key]; ok {
			return repository.ErrDuplicateIdentityKey
		}
		key.CreatedAt = time.Now()
		d.identityKeys[key.Key] = copyIdentityKey(key)

		return nil
	})
}

// leadRepository implements repository.LeadRepository in memory.
type leadRepository struct {
	access accessor
}

func (repo *leadRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Lead, error) {
	var found *entity.Lead
	err := repo.access.with(func(d *dataset) error {
		l, ok := d.leads[id]
		if !ok {
			return repository.ErrLeadNotFound
		}
		found = copyLead(l)

		return nil
	})

	return found, err
}

func (repo *leadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	return repo.access.with(func(d *dataset) error {
		if lead.ID == uuid.Nil {
			lead.ID = uuid.New()
		}
		now := time.Now()
		lead.CreatedAt = now
		lead.UpdatedAt = now
		d.leads[lead.ID] = copyLead(lead)

		return nil
	})
}

func (repo *leadRepository) Update(ctx context.Context, lead *entity.Lead) error {
	return repo.access.with(func(d *dataset) error {
		if _, ok := d.leads[lead.ID]; !ok {
			return repository.ErrLeadNotFound
		}
		lead.UpdatedAt = time.Now()
		d.leads[lead.ID] = copyLead(lead)

		return nil
	})
}

func (repo *leadRepository) AppendEvent(ctx context.Context, event *entity.LeadEvent) error {
	return repo.access.with(func(d *dataset) error {
		if event.ID == uuid.Nil {
			event.ID = uuid.New()
		}
		event.CreatedAt = time.Now()
		d.leadEvents = append(d.leadEvents, copyLeadEvent(event))

		return nil
	})
}

func (repo *leadRepository) ListEventsByLead(ctx context.Context, leadID uuid.UUID) ([]*entity.LeadEvent, error) {
	var events []*entity.LeadEvent
	err := repo.access.with(func(d *dataset) error {
		for _, e := range d.leadEvents {
			if e.LeadID == leadID {
				events = append(events, copyLeadEvent(e))
			}
		}

		return nil
	})

	return events, err
}

// linkRepository implements repository.LinkRepository in memory.
type linkRepository struct {
	access accessor
}

func (repo *linkRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.CampaignLink, error) {
	var found *entity.CampaignLink
	err := repo.access.with(func(d *dataset) error {
		l, ok := d.links[id]
		if !ok {
			return repository.ErrLinkNotFound
		}
		found = copyLink(l)

		return nil
	})

	return found, err
}

func (repo *linkRepository) Create(ctx context.Context, link *entity.CampaignLink) error {
	return repo.access.with(func(d *dataset) error {
		if link.ID == uuid.Nil {
			link.ID = uuid.New()
		}
		now := time.Now()
		link.CreatedAt = now
		link.UpdatedAt = now
		d.links[link.ID] = copyLink(link)

		return nil
	})
}

func (repo *linkRepository) Update(ctx context.Context, link *entity.CampaignLink) error {
	return repo.access.with(func(d *dataset) error {
		if _, ok := d.links[link.ID]; !ok {
			return repository.ErrLinkNotFound
		}
		link.UpdatedAt = time.Now()
		d.links[link.ID] = copyLink(link)

		return nil
	})
}

func (repo *linkRepository) FindCode(ctx context.Context, code string) (*entity.LinkCode, error) {
	var found *entity.LinkCode
	err := repo.access.with(func(d *dataset) error {
		c, ok := d.linkCodes[code]
		if !ok {
			return repository.ErrLinkCodeNotFound
		}
		found = copyLinkCode(c)

		return nil
	})

	return found, err
}

func (repo *linkRepository) CreateCode(ctx context.Context, code *entity.LinkCode) error {
	return repo.access.with(func(d *dataset) error {
		if _, ok := d.linkCodes[code.Code]; ok {
			return repository.ErrDuplicateLinkCode
		}
		code.CreatedAt = time.Now()
		d.linkCodes[code.Code] = copyLinkCode(code)

		return nil
	})
}

func (repo *linkRepository) AddClicks(ctx context.Context, linkID uuid.UUID, delta int64) error {
	return repo.access.with(func(d *dataset) error {
		l, ok := d.links[linkID]
		if !ok {
			return repository.ErrLinkNotFound
		}
		l.Clicks += delta
		l.UpdatedAt = time.Now()

		return nil
	})
}

func (repo *linkRepository) CreateClickEvent(ctx context.Context, event *entity.ClickEvent) error {
	return repo.access.with(func(d *dataset) error {
		if event.ID == uuid.Nil {
			event.ID = uuid.New()
		}
		event.CreatedAt = time.Now()
		d.clickEvents = append(d.clickEvents, copyClickEvent(event))

		return nil
	})
}

func (repo *linkRepository) ListClickEventsByLink(ctx context.Context, linkID uuid.UUID) ([]*entity.ClickEvent, error) {
	var events []*entity.ClickEvent
	err := repo.access.with(func(d *dataset) error {
		for _, e := range d.clickEvents {
			if e.CampaignLinkID == linkID {
				events = append(events, copyClickEvent(e))
			}
		}

		return nil
	})

	return events, err
}

// campaignRepository implements repository.CampaignRepository in memory.
type campaignRepository struct {
	access accessor
}

func (repo *campaignRepository) FindCampaignByID(ctx context.Context, id uuid.UUID) (*entity.Campaign, error) {
	var found *entity.Campaign
	err := repo.access.with(func(d *dataset) error {
		c, ok := d.campaigns[id]
		if !ok {
			return repository.ErrCampaignNotFound
		}
		found = copyCampaign(c)

		return nil
	})

	return found, err
}

func (repo *campaignRepository) CreateCampaign(ctx context.Context, campaign *entity.Campaign) error {
	return repo.access.with(func(d *dataset) error {
		if campaign.ID == uuid.Nil {
			campaign.ID = uuid.New()
		}
		now := time.Now()
		campaign.CreatedAt = now
		campaign.UpdatedAt = now
		d.campaigns[campaign.ID] = copyCampaign(campaign)

		return nil
	})
}

func (repo *campaignRepository) FindIntakeByID(ctx context.Context, id uuid.UUID) (*entity.Intake, error) {
	var found *entity.Intake
	err := repo.access.with(func(d *dataset) error {
		i, ok := d.intakes[id]
		if !ok {
			return repository.ErrIntakeNotFound
		}
		found = copyIntake(i)

		return nil
	})

	return found, err
}

func (repo *campaignRepository) CreateIntake(ctx context.Context, intake *entity.Intake) error {
	return repo.access.with(func(d *dataset) error {
		if intake.ID == uuid.Nil {
			intake.ID = uuid.New()
		}
		now := time.Now()
		intake.CreatedAt = now
		intake.UpdatedAt = now
		d.intakes[intake.ID] = copyIntake(intake)

		return nil
	})
}

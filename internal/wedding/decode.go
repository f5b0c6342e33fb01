package wedding

import (
	"encoding/json"
	"fmt"

	"github.com/nhle/sarnrak/internal/model"
)

// storedRecord mirrors the persisted blob with every top-level field
// optional, so older blobs written before a field existed can be told apart
// from blobs that explicitly hold a zero value.
type storedRecord struct {
	CoupleNames *model.CoupleNames   `json:"coupleNames"`
	Date        *string              `json:"date"`
	BudgetTotal *float64             `json:"budgetTotal"`
	Guests      []model.Guest        `json:"guests"`
	BudgetItems []model.BudgetItem   `json:"budgetItems"`
	Rituals     []model.RitualTask   `json:"rituals"`
	Gallery     []model.GalleryImage `json:"gallery"`
	Theme       *model.Theme         `json:"theme"`
	Tables      []model.Table        `json:"tables"`
	Catering    []model.MenuItem     `json:"catering"`
	Production  *storedProduction    `json:"production"`
}

type storedProduction struct {
	VideoTeam  string                 `json:"videoTeam"`
	Projectors *int                   `json:"projectors"`
	Tasks      []model.ProductionTask `json:"tasks"`
}

// Decode parses a persisted blob and backfills every missing or null field
// with its default. The migration is additive: fields present in the blob
// are kept as they are, unknown fields are ignored.
func Decode(data []byte) (model.WeddingRecord, error) {
	var s storedRecord
	if err := json.Unmarshal(data, &s); err != nil {
		return model.WeddingRecord{}, fmt.Errorf("decoding wedding record: %w", err)
	}
	return backfill(s), nil
}

// Encode serializes rec in the persisted blob format.
func Encode(rec model.WeddingRecord) ([]byte, error) {
	rec.Normalize()
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encoding wedding record: %w", err)
	}
	return data, nil
}

func backfill(s storedRecord) model.WeddingRecord {
	rec := model.DefaultRecord()

	if s.CoupleNames != nil {
		rec.CoupleNames = *s.CoupleNames
	}
	if s.Date != nil {
		rec.Date = *s.Date
	}
	if s.BudgetTotal != nil {
		rec.BudgetTotal = *s.BudgetTotal
	}
	if s.Guests != nil {
		rec.Guests = s.Guests
	}
	if s.BudgetItems != nil {
		rec.BudgetItems = s.BudgetItems
	}
	if s.Rituals != nil {
		rec.Rituals = s.Rituals
	}
	if s.Gallery != nil {
		rec.Gallery = s.Gallery
	}
	if s.Theme != nil {
		rec.Theme = *s.Theme
	}
	if s.Tables != nil {
		rec.Tables = s.Tables
	}
	if s.Catering != nil {
		rec.Catering = s.Catering
	}
	if s.Production != nil {
		rec.Production.VideoTeam = s.Production.VideoTeam
		if s.Production.Projectors != nil {
			rec.Production.Projectors = *s.Production.Projectors
		}
		if s.Production.Tasks != nil {
			rec.Production.Tasks = s.Production.Tasks
		}
	}

	rec.Normalize()
	return rec
}

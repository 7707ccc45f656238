package docstore

import (
	"fmt"
	"sort"

	"github.com/julianstephens/caltrack/internal/logger"
	"github.com/julianstephens/caltrack/internal/models"
	"github.com/julianstephens/caltrack/internal/validation"
)

// SaveDailyRecord replaces the record with the same date in place, or
// appends it.
func (s *Store) SaveDailyRecord(record models.DailyRecord, userID string) error {
	if err := record.Validate(); err != nil {
		logger.Error("refusing to save invalid record", "user", userID, "date", record.Date, "error", err)
		return fmt.Errorf("invalid record: %w", err)
	}

	key := s.keys.RecordsKey(userID)
	records, err := readList[models.DailyRecord](s, key, validation.KindRecords)
	if err != nil {
		return err
	}

	replaced := false
	for i := range records {
		if records[i].Date == record.Date {
			records[i] = record
			replaced = true
			break
		}
	}
	if !replaced {
		records = append(records, record)
	}

	return s.writeDoc(key, records)
}

// Records returns every record of userID in stored order
func (s *Store) Records(userID string) Result[[]models.DailyRecord] {
	return readDoc[[]models.DailyRecord](s, s.keys.RecordsKey(userID), validation.KindRecords)
}

func (s *Store) GetAllRecords(userID string) []models.DailyRecord {
	records, _ := s.Records(userID).Get()
	if records == nil {
		return []models.DailyRecord{}
	}
	return records
}

// DailyRecord returns the record of userID for date
func (s *Store) DailyRecord(date, userID string) Result[models.DailyRecord] {
	records := s.Records(userID)
	if records.Status != StatusOK {
		return Result[models.DailyRecord]{Status: records.Status, Err: records.Err}
	}
	for _, r := range records.Value {
		if r.Date == date {
			return ok(r)
		}
	}
	return empty[models.DailyRecord]()
}

func (s *Store) GetDailyRecord(date, userID string) (models.DailyRecord, bool) {
	return s.DailyRecord(date, userID).Get()
}

// GetLastNRecords takes the last n records in stored order and sorts those
// ascending by date. Records saved out of order can therefore hide more
// recent dates. Dates that do not parse sort after every valid date and keep
// their relative order.
func (s *Store) GetLastNRecords(n int, userID string) []models.DailyRecord {
	if n <= 0 {
		return []models.DailyRecord{}
	}

	records := s.GetAllRecords(userID)
	if len(records) > n {
		records = records[len(records)-n:]
	}

	out := make([]models.DailyRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		di, iok := out[i].ParsedDate()
		dj, jok := out[j].ParsedDate()
		return iok && (!jok || di.Before(dj))
	})
	return out
}

// AddFoodEntry logs quantityG grams of food on date for userID and returns
// the updated record. A new record takes the user's daily goal.
func (s *Store) AddFoodEntry(userID, date string, food models.FoodItem, quantityG float64) (models.DailyRecord, error) {
	if quantityG <= 0 {
		return models.DailyRecord{}, fmt.Errorf("quantity must be positive: %g", quantityG)
	}

	existing := s.DailyRecord(date, userID)
	if existing.Status == StatusFailed {
		return models.DailyRecord{}, existing.Err
	}

	record := existing.Value
	if existing.Status == StatusEmpty {
		record = models.DailyRecord{Date: date, Entries: []models.FoodEntry{}}
		if u, found := s.GetUser(userID); found {
			record.Goal = u.DailyCalorieGoal
		}
	}

	record.AddEntry(food, quantityG, s.now())
	if err := s.SaveDailyRecord(record, userID); err != nil {
		return models.DailyRecord{}, err
	}
	return record, nil
}

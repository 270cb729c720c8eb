package imports

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/angelmondragon/ayurcart-backend/pkg/db"
	"github.com/angelmondragon/ayurcart-backend/pkg/db/models"
	"github.com/angelmondragon/ayurcart-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/ayurcart-backend/pkg/errors"
	"github.com/angelmondragon/ayurcart-backend/pkg/logger"
	"github.com/angelmondragon/ayurcart-backend/pkg/metrics"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

const (
	ResourceCountries = "countries"
	ResourceCities    = "cities"
)

// Service turns an uploaded workbook into upserted reference rows.
type Service interface {
	Import(ctx context.Context, resource string, body io.Reader) (*Report, error)
}

var cellValidate = validator.New()

type rowRecorder interface {
	RecordRow(resource, outcome string)
}

// Store is the database an import writes through; *db.Client satisfies it.
type Store interface {
	DB() *gorm.DB
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	store   Store
	metrics rowRecorder
	logg    *logger.Logger
}

// NewService builds the import service. metrics may be nil.
func NewService(store Store, recorder rowRecorder, logg *logger.Logger) (Service, error) {
	if store == nil || store.DB() == nil {
		return nil, fmt.Errorf("db required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{store: store, metrics: recorder, logg: logg}, nil
}

var countryColumns = []column{
	{key: "name", aliases: []string{"name", "country", "country name"}, required: true},
	{key: "iso_code", aliases: []string{"iso_code", "iso", "iso code"}},
	{key: "phone_code", aliases: []string{"phone_code", "phonecode", "phone code", "dial code"}},
	{key: "status", aliases: []string{"status"}},
}

var cityColumns = []column{
	{key: "state_id", aliases: []string{"state_id", "stateid", "state id", "state"}, required: true},
	{key: "name", aliases: []string{"name", "city", "city name"}, required: true},
	{key: "status", aliases: []string{"status"}},
}

// Import processes rows sequentially. Row problems are collected in the report;
// only a failure to read the file or a database outage aborts the run. When no row
// was valid the report is returned inside a validation error.
func (s *service) Import(ctx context.Context, resource string, body io.Reader) (*Report, error) {
	var run func(context.Context, *sheet) (*Report, error)
	switch resource {
	case ResourceCountries:
		run = s.importCountries
	case ResourceCities:
		run = s.importCities
	default:
		return nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "import is not supported for %s", resource)
	}

	data, err := readFirstSheet(body)
	if err != nil {
		return nil, err
	}
	report, err := run(ctx, data)
	if err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"resource":    resource,
		"total_rows":  report.TotalRows,
		"created":     report.Created,
		"updated":     report.Updated,
		"failed_rows": report.FailedRows,
	}), "import.completed")

	if report.ValidRows == 0 {
		return report, pkgerrors.New(pkgerrors.CodeValidation, "no valid rows to import").WithDetails(report)
	}
	return report, nil
}

func (s *service) record(resource, outcome string) {
	if s.metrics != nil {
		s.metrics.RecordRow(resource, outcome)
	}
}

func (s *service) importCountries(ctx context.Context, data *sheet) (*Report, error) {
	index, err := mapColumns(data.header, countryColumns)
	if err != nil {
		return nil, err
	}
	report := newReport()

	for i, row := range data.rows {
		if isBlank(row) {
			continue
		}
		report.TotalRows++

		name := cell(row, index, "name")
		iso := strings.ToUpper(cell(row, index, "iso_code"))
		phone := cell(row, index, "phone_code")
		status, statusErr := enums.ParseStatus(strings.ToLower(cell(row, index, "status")))

		reason := ""
		switch {
		case name == "":
			reason = "name is required"
		case iso != "" && cellValidate.Var(iso, models.CountryISORule) != nil:
			reason = "iso_code must be at most 3 letters"
		case statusErr != nil:
			reason = statusErr.Error()
		}
		if reason != "" {
			report.fail(i, reason)
			s.record(ResourceCountries, metrics.ImportOutcomeFailed)
			continue
		}

		created, err := s.upsertCountry(ctx, name, iso, phone, status)
		if err != nil {
			if db.IsUniqueViolation(err, "") {
				report.fail(i, fmt.Sprintf("country %q already exists", name))
				s.record(ResourceCountries, metrics.ImportOutcomeFailed)
				continue
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "import countries")
		}
		report.succeed(created)
		s.record(ResourceCountries, outcomeFor(created))
	}
	return report, nil
}

// upsertCountry matches on name; the lookup and write share a transaction.
func (s *service) upsertCountry(ctx context.Context, name, iso, phone string, status enums.Status) (created bool, err error) {
	err = s.store.WithTx(ctx, func(tx *gorm.DB) error {
		var existing models.Country
		err := tx.Where("name = ?", name).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			created = true
			row := models.Country{Name: name, ISOCode: optional(iso), PhoneCode: optional(phone), Status: status}
			return tx.Create(&row).Error
		}
		if err != nil {
			return err
		}

		updates := map[string]any{"status": status}
		if iso != "" {
			updates["iso_code"] = iso
		}
		if phone != "" {
			updates["phone_code"] = phone
		}
		return tx.Model(&existing).Updates(updates).Error
	})
	return created, err
}

func (s *service) importCities(ctx context.Context, data *sheet) (*Report, error) {
	index, err := mapColumns(data.header, cityColumns)
	if err != nil {
		return nil, err
	}

	knownStates, err := s.existingStates(ctx, data.rows, index)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load states")
	}

	report := newReport()
	for i, row := range data.rows {
		if isBlank(row) {
			continue
		}
		report.TotalRows++

		rawState := cell(row, index, "state_id")
		name := cell(row, index, "name")
		stateID, parseErr := parseID(rawState)
		status, statusErr := enums.ParseStatus(strings.ToLower(cell(row, index, "status")))

		reason := ""
		switch {
		case rawState == "":
			reason = "state_id is required"
		case parseErr != nil:
			reason = fmt.Sprintf("state_id %q is not a valid id", rawState)
		case !knownStates[stateID]:
			reason = fmt.Sprintf("state_id %d not found", stateID)
		case name == "":
			reason = "name is required"
		case statusErr != nil:
			reason = statusErr.Error()
		}
		if reason != "" {
			report.fail(i, reason)
			s.record(ResourceCities, metrics.ImportOutcomeFailed)
			continue
		}

		created, err := s.upsertCity(ctx, stateID, name, status)
		if err != nil {
			if db.IsUniqueViolation(err, "") {
				report.fail(i, fmt.Sprintf("city %q already exists in state %d", name, stateID))
				s.record(ResourceCities, metrics.ImportOutcomeFailed)
				continue
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "import cities")
		}
		report.succeed(created)
		s.record(ResourceCities, outcomeFor(created))
	}
	return report, nil
}

// existingStates checks every referenced state id with a single IN query.
func (s *service) existingStates(ctx context.Context, rows [][]string, index map[string]int) (map[int64]bool, error) {
	seen := map[int64]bool{}
	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		id, err := parseID(cell(row, index, "state_id"))
		if err != nil || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}

	known := make(map[int64]bool, len(ids))
	if len(ids) == 0 {
		return known, nil
	}
	var found []int64
	if err := s.store.DB().WithContext(ctx).Model(&models.State{}).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return nil, err
	}
	for _, id := range found {
		known[id] = true
	}
	return known, nil
}

func (s *service) upsertCity(ctx context.Context, stateID int64, name string, status enums.Status) (created bool, err error) {
	err = s.store.WithTx(ctx, func(tx *gorm.DB) error {
		var existing models.City
		err := tx.Where("state_id = ? AND name = ?", stateID, name).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			created = true
			return tx.Create(&models.City{StateID: stateID, Name: name, Status: status}).Error
		}
		if err != nil {
			return err
		}
		return tx.Model(&existing).Update("status", status).Error
	})
	return created, err
}

// parseID accepts spreadsheet numerics such as "12" and "12.0".
func parseID(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimSuffix(raw, ".0")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, fmt.Errorf("id must be positive")
	}
	return id, nil
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func outcomeFor(created bool) string {
	if created {
		return metrics.ImportOutcomeCreated
	}
	return metrics.ImportOutcomeUpdated
}

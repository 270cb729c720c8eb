package imports

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/angelmondragon/ayurcart-backend/pkg/db"
	"github.com/angelmondragon/ayurcart-backend/pkg/db/models"
	"github.com/angelmondragon/ayurcart-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/ayurcart-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.Country{}, &models.State{}, &models.City{}))
	return conn
}

func workbook(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cellRef, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

type recorder struct {
	outcomes map[string]int
}

func (r *recorder) RecordRow(resource, outcome string) {
	if r.outcomes == nil {
		r.outcomes = map[string]int{}
	}
	r.outcomes[resource+":"+outcome]++
}

func newTestService(t *testing.T, conn *gorm.DB) (Service, *recorder) {
	t.Helper()
	rec := &recorder{}
	svc, err := NewService(db.Wrap(conn), rec, nil)
	require.NoError(t, err)
	return svc, rec
}

func TestImportCitiesIsolatesBadRows(t *testing.T) {
	conn := setupDB(t)
	country := models.Country{Name: "India", Status: enums.StatusActive}
	require.NoError(t, conn.Create(&country).Error)
	state := models.State{CountryID: country.ID, Name: "Kerala", Status: enums.StatusActive}
	require.NoError(t, conn.Create(&state).Error)
	require.NoError(t, conn.Create(&models.City{StateID: state.ID, Name: "Kochi", Status: enums.StatusActive}).Error)

	svc, rec := newTestService(t, conn)
	file := workbook(t, [][]any{
		{"State ID", "City Name", "Status"},
		{state.ID, "Kochi", "inactive"},
		{state.ID, "Thrissur", ""},
		{999, "Atlantis", "active"},
		{state.ID, "Kozhikode", "Active"},
		{state.ID, "Kannur", "active"},
	})

	report, err := svc.Import(context.Background(), ResourceCities, file)
	require.NoError(t, err)
	assert.Equal(t, 5, report.TotalRows)
	assert.Equal(t, 4, report.ValidRows)
	assert.Equal(t, 4, report.Created+report.Updated)
	assert.Equal(t, 3, report.Created)
	assert.Equal(t, 1, report.Updated)
	assert.Equal(t, 1, report.FailedRows)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "Row 4")
	assert.Contains(t, report.Errors[0], "state_id 999 not found")

	var kochi models.City
	require.NoError(t, conn.Where("name = ?", "Kochi").First(&kochi).Error)
	assert.Equal(t, enums.StatusInactive, kochi.Status)

	var count int64
	require.NoError(t, conn.Model(&models.City{}).Count(&count).Error)
	assert.Equal(t, int64(4), count)

	assert.Equal(t, 3, rec.outcomes["cities:created"])
	assert.Equal(t, 1, rec.outcomes["cities:updated"])
	assert.Equal(t, 1, rec.outcomes["cities:failed"])
}

func TestImportCountriesUpsertsAndMatchesHeaderSynonyms(t *testing.T) {
	conn := setupDB(t)
	require.NoError(t, conn.Create(&models.Country{Name: "India", Status: enums.StatusInactive}).Error)
	svc, _ := newTestService(t, conn)

	file := workbook(t, [][]any{
		{"Country", "ISO", "Dial-Code", "STATUS"},
		{"India", "ind", "+91", "active"},
		{"Nepal", "NP", "+977", ""},
		{"", "XX", "", ""},
		{"Bhutan", "BTNX", "+975", "active"},
		{"Sri Lanka", "LK", "+94", "paused"},
		{"Maldives", "M1", "+960", "active"},
	})

	report, err := svc.Import(context.Background(), ResourceCountries, file)
	require.NoError(t, err)
	assert.Equal(t, 6, report.TotalRows)
	assert.Equal(t, 1, report.Created)
	assert.Equal(t, 1, report.Updated)
	assert.Equal(t, 4, report.FailedRows)
	assert.Equal(t, []string{
		"Row 4: name is required",
		"Row 5: iso_code must be at most 3 letters",
		`Row 6: invalid status "paused"`,
		"Row 7: iso_code must be at most 3 letters",
	}, report.Errors)

	var india models.Country
	require.NoError(t, conn.Where("name = ?", "India").First(&india).Error)
	assert.Equal(t, enums.StatusActive, india.Status)
	require.NotNil(t, india.ISOCode)
	assert.Equal(t, "IND", *india.ISOCode)
	require.NotNil(t, india.PhoneCode)
	assert.Equal(t, "+91", *india.PhoneCode)
}

func TestImportWithNoValidRowsReturnsReportInError(t *testing.T) {
	conn := setupDB(t)
	svc, _ := newTestService(t, conn)

	file := workbook(t, [][]any{
		{"state_id", "name"},
		{"abc", "Nowhere"},
		{42, "Ghost Town"},
	})

	report, err := svc.Import(context.Background(), ResourceCities, file)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	require.NotNil(t, report)
	assert.Equal(t, 2, report.FailedRows)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, report, typed.Details())
	assert.Contains(t, report.Errors[0], `Row 2: state_id "abc" is not a valid id`)
}

func TestImportFileProblems(t *testing.T) {
	conn := setupDB(t)
	svc, _ := newTestService(t, conn)
	ctx := context.Background()

	_, err := svc.Import(ctx, ResourceCities, strings.NewReader("not a workbook"))
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.Import(ctx, ResourceCities, workbook(t, nil))
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.Import(ctx, ResourceCities, workbook(t, [][]any{{"city"}, {"Kochi"}}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required column: state_id")

	_, err = svc.Import(ctx, "pincodes", workbook(t, [][]any{{"code"}}))
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestNormalizeHeader(t *testing.T) {
	for _, in := range []string{"state_id", "StateID", " state id ", "State-Id"} {
		assert.Equal(t, "stateid", normalizeHeader(in), in)
	}
}

func TestParseID(t *testing.T) {
	id, err := parseID("12.0")
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)
	_, err = parseID("0")
	assert.Error(t, err)
	_, err = parseID("1.5")
	assert.Error(t, err)
}

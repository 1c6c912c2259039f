package datastore

import (
	"clima/internal/config"
	"clima/internal/models"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const kaggleHeader = `Data (YYYY-MM-DD),Hora (UTC),"Temperatura do ar - bulbo seco, horaria (°C)",Umidade relativa do ar (%)`

func testDataConfig(dir string) config.DataConfig {
	cfg := config.Default().Data
	cfg.Dir = dir
	cfg.FirstYear = 2018
	cfg.LastYear = 2022
	return cfg
}

func writeFile(t *testing.T, dir, partition, name, content string) {
	t.Helper()
	pdir := filepath.Join(dir, partition)
	if err := os.MkdirAll(pdir, 0o755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(filepath.Join(pdir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
}

func TestNormalizeColumn(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"date column", "Data (YYYY-MM-DD)", "data_yyyy-mm-dd"},
		{"temperature column", "Temperatura do ar - bulbo seco, horaria (°C)", "temperatura_do_ar_-_bulbo_seco,_horaria_°c"},
		{"surrounding spaces", "  Hora (UTC) ", "hora_utc"},
		{"already normalized", "data_yyyy-mm-dd", "data_yyyy-mm-dd"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeColumn(tt.in)
			if got != tt.want {
				t.Errorf("NormalizeColumn(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if again := NormalizeColumn(got); again != got {
				t.Errorf("NormalizeColumn is not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestLoadYear(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "weather_2020", "a.csv", kaggleHeader+`
2020-01-15,1200,25.5,80
2020-01-16,1200,27.0,70
2020-07-01,1200,15.25,60
`)

	store := NewStore(testDataConfig(dir))
	table, err := store.LoadYear(2020)
	if err != nil {
		t.Fatalf("LoadYear() error = %v", err)
	}

	if table.Len() != 3 {
		t.Fatalf("LoadYear() returned %d rows, want 3", table.Len())
	}

	first := table.Records[0]
	if first.Year != 2020 || first.Month != 1 {
		t.Errorf("first record year/month = %d/%d, want 2020/1", first.Year, first.Month)
	}
	if !first.Date.Equal(time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("first record date = %v", first.Date)
	}
	if !first.HasTemperature || first.Temperature != 25.5 {
		t.Errorf("first record temperature = %v (%v), want 25.5", first.Temperature, first.HasTemperature)
	}
	if table.Records[2].Month != 7 {
		t.Errorf("third record month = %d, want 7", table.Records[2].Month)
	}

	wantColumns := []string{"data_yyyy-mm-dd", "hora_utc", config.DefaultTemperatureColumn, "umidade_relativa_do_ar_%"}
	if len(table.Columns) != len(wantColumns) {
		t.Fatalf("columns = %v, want %v", table.Columns, wantColumns)
	}
	for i, c := range wantColumns {
		if table.Columns[i] != c {
			t.Errorf("column %d = %q, want %q", i, table.Columns[i], c)
		}
	}
}

func TestLoad_NilYearReadsEverything(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "weather_2019", "a.csv", kaggleHeader+"\n2019-03-01,0000,20,50\n")
	writeFile(t, dir, "weather_2021", "a.csv", kaggleHeader+"\n2021-03-01,0000,22,50\n")

	store := NewStore(testDataConfig(dir))

	all, err := store.Load(nil)
	if err != nil {
		t.Fatalf("Load(nil) error = %v", err)
	}
	if all.Len() != 2 {
		t.Errorf("Load(nil) rows = %d, want 2", all.Len())
	}

	year := 2021
	one, err := store.Load(&year)
	if err != nil {
		t.Fatalf("Load(&2021) error = %v", err)
	}
	if one.Len() != 1 || one.Records[0].Year != 2021 {
		t.Errorf("Load(&2021) = %+v", one.Records)
	}
}

func TestLoadYear_NoDataFound(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "weather_2020", "a.csv", kaggleHeader+"\n2020-01-01,0000,20,50\n")
	// a partition with no csv files counts as absent
	writeFile(t, dir, "weather_2021", "readme.txt", "nothing here")

	store := NewStore(testDataConfig(dir))

	for _, year := range []int{1999, 2018, 2021, 2030} {
		_, err := store.LoadYear(year)
		if !errors.Is(err, ErrNoDataFound) {
			t.Errorf("LoadYear(%d) error = %v, want ErrNoDataFound", year, err)
		}
	}
}

func TestLoadAll_NoDataFound(t *testing.T) {
	store := NewStore(testDataConfig(t.TempDir()))

	_, err := store.LoadAll()
	if !errors.Is(err, ErrNoDataFound) {
		t.Errorf("LoadAll() error = %v, want ErrNoDataFound", err)
	}
}

func TestLoadAll_ConcatenatesInYearOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "weather_2022", "a.csv", kaggleHeader+"\n2022-05-01,0000,30,50\n")
	writeFile(t, dir, "weather_2018", "b.csv", kaggleHeader+"\n2018-05-01,0000,10,50\n")
	writeFile(t, dir, "weather_2018", "a.csv", kaggleHeader+"\n2018-04-01,0000,11,50\n")
	// outside the configured range
	writeFile(t, dir, "weather_2030", "a.csv", kaggleHeader+"\n2030-05-01,0000,99,50\n")

	store := NewStore(testDataConfig(dir))
	table, err := store.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}

	var got []float64
	for _, r := range table.Records {
		got = append(got, r.Temperature)
	}
	want := []float64{11, 10, 30}
	if len(got) != len(want) {
		t.Fatalf("LoadAll() temperatures = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("LoadAll() temperatures = %v, want %v", got, want)
			break
		}
	}
}

func TestLoadYear_ManyFilesKeepNameOrder(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 12; i++ {
		name := fmt.Sprintf("station_%02d.csv", i)
		writeFile(t, dir, "weather_2020", name, fmt.Sprintf("%s\n2020-01-01,0000,%d,50\n", kaggleHeader, i))
	}

	for _, workers := range []int{1, 3, 0} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			cfg := testDataConfig(dir)
			cfg.Workers = workers
			table, err := NewStore(cfg).LoadYear(2020)
			if err != nil {
				t.Fatalf("LoadYear() error = %v", err)
			}
			if table.Len() != 12 {
				t.Fatalf("LoadYear() rows = %d, want 12", table.Len())
			}
			for i, r := range table.Records {
				if r.Temperature != float64(i) {
					t.Fatalf("row %d temperature = %v, want %d", i, r.Temperature, i)
				}
			}
		})
	}
}

func TestLoadYear_MissingColumn(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"no date column", "Hora (UTC),\"Temperatura do ar - bulbo seco, horaria (°C)\",x\n0000,20,1\n"},
		{"no temperature column", "Data (YYYY-MM-DD),Hora (UTC),x\n2020-01-01,0000,1\n"},
		{"no header", "a,b\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, "weather_2020", "a.csv", tt.content)

			_, err := NewStore(testDataConfig(dir)).LoadYear(2020)
			if !errors.Is(err, ErrMissingColumn) {
				t.Errorf("LoadYear() error = %v, want ErrMissingColumn", err)
			}
		})
	}
}

func TestLoadYear_INMETStationFile(t *testing.T) {
	dir := t.TempDir()
	content := "\ufeffREGIAO:;CO\n" +
		"UF:;DF\n" +
		"ESTACAO:;BRASILIA\n" +
		"Data (YYYY-MM-DD);Hora (UTC);Temperatura do ar - bulbo seco, horaria (°C);Umidade\n" +
		"2020/01/01;0000 UTC;21,4;80\n" +
		"2020/01/01;0100 UTC;-9999;80\n" +
		"2020/01/01;0200 UTC;;80\n" +
		"not a date;0300 UTC;22;80\n" +
		";0400 UTC;22;80\n"
	writeFile(t, dir, "weather_2020", "INMET_CO_DF.CSV", content)

	table, err := NewStore(testDataConfig(dir)).LoadYear(2020)
	if err != nil {
		t.Fatalf("LoadYear() error = %v", err)
	}

	if table.Len() != 3 {
		t.Fatalf("LoadYear() rows = %d, want 3 (two rejected dates)", table.Len())
	}
	if !table.Records[0].HasTemperature || table.Records[0].Temperature != 21.4 {
		t.Errorf("decimal comma not parsed: %+v", table.Records[0])
	}
	if table.Records[1].HasTemperature {
		t.Errorf("-9999 should be treated as missing: %+v", table.Records[1])
	}
	if table.Records[2].HasTemperature {
		t.Errorf("empty value should be treated as missing: %+v", table.Records[2])
	}
}

func TestLoadYear_TwoColumnFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "weather_2020", "a.csv", `Data (YYYY-MM-DD),"Temperatura do ar - bulbo seco, horaria (°C)"
2020-01-15,25.5
2020-01-16,27.0
`)

	table, err := NewStore(testDataConfig(dir)).LoadYear(2020)
	if err != nil {
		t.Fatalf("LoadYear() error = %v", err)
	}

	if table.Len() != 2 {
		t.Fatalf("LoadYear() rows = %d, want 2", table.Len())
	}
	if table.Records[0].Temperature != 25.5 || table.Records[1].Temperature != 27.0 {
		t.Errorf("temperatures = %v, %v", table.Records[0].Temperature, table.Records[1].Temperature)
	}
}

func TestLoadYear_NonFiniteTemperaturesAreMissing(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "weather_2020", "a.csv", kaggleHeader+`
2020-01-01,0000,inf,80
2020-01-01,0100,+Inf,80
2020-01-01,0200,-Inf,80
2020-01-01,0300,NaN,80
2020-01-01,0400,1e400,80
2020-01-01,0500,30.5,80
`)

	table, err := NewStore(testDataConfig(dir)).LoadYear(2020)
	if err != nil {
		t.Fatalf("LoadYear() error = %v", err)
	}
	if table.Len() != 6 {
		t.Fatalf("LoadYear() rows = %d, want 6", table.Len())
	}

	for i, r := range table.Records[:5] {
		if r.HasTemperature {
			t.Errorf("row %d: temperature %v should be treated as missing", i, r.Temperature)
		}
	}
	if last := table.Records[5]; !last.HasTemperature || last.Temperature != 30.5 {
		t.Errorf("finite temperature lost: %+v", last)
	}
}

func TestHasPartitions(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(testDataConfig(dir))

	if store.HasPartitions() {
		t.Error("HasPartitions() = true for empty dir")
	}

	writeFile(t, dir, "weather_2019", "a.csv", kaggleHeader)
	if !store.HasPartitions() {
		t.Error("HasPartitions() = false after creating weather_2019")
	}
}

func TestEnsureDataset(t *testing.T) {
	t.Run("already present", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "weather_2019", "a.csv", kaggleHeader)

		err := NewStore(testDataConfig(dir)).EnsureDataset(context.Background(), []string{"false"})
		if err != nil {
			t.Errorf("EnsureDataset() error = %v, want nil without running the command", err)
		}
	})

	t.Run("no command configured", func(t *testing.T) {
		err := NewStore(testDataConfig(t.TempDir())).EnsureDataset(context.Background(), nil)
		if !errors.Is(err, ErrNoDataFound) {
			t.Errorf("EnsureDataset() error = %v, want ErrNoDataFound", err)
		}
	})

	t.Run("command creates partitions", func(t *testing.T) {
		dir := t.TempDir()
		store := NewStore(testDataConfig(dir))

		if err := store.EnsureDataset(context.Background(), []string{"mkdir", "weather_2020"}); err != nil {
			t.Fatalf("EnsureDataset() error = %v", err)
		}
		if !store.HasPartitions() {
			t.Error("HasPartitions() = false after download command")
		}
	})

	t.Run("command creates nothing", func(t *testing.T) {
		err := NewStore(testDataConfig(t.TempDir())).EnsureDataset(context.Background(), []string{"true"})
		if err == nil {
			t.Error("EnsureDataset() error = nil, want error when no partitions appear")
		}
	})
}

type countingLoader struct {
	yearCalls int
	allCalls  int
	err       error
}

func (l *countingLoader) LoadYear(year int) (*models.Table, error) {
	l.yearCalls++
	if l.err != nil {
		return nil, l.err
	}
	return &models.Table{Records: []models.Record{{Year: year}}}, nil
}

func (l *countingLoader) LoadAll() (*models.Table, error) {
	l.allCalls++
	return &models.Table{}, nil
}

func TestCache(t *testing.T) {
	loader := &countingLoader{}
	cache := NewCache(loader)

	for i := 0; i < 3; i++ {
		table, err := cache.LoadYear(2020)
		if err != nil {
			t.Fatalf("LoadYear() error = %v", err)
		}
		if table.Records[0].Year != 2020 {
			t.Errorf("cached table has year %d", table.Records[0].Year)
		}
	}
	cache.LoadYear(2021)
	cache.LoadAll()
	cache.LoadAll()

	if loader.yearCalls != 2 {
		t.Errorf("underlying LoadYear calls = %d, want 2", loader.yearCalls)
	}
	if loader.allCalls != 1 {
		t.Errorf("underlying LoadAll calls = %d, want 1", loader.allCalls)
	}

	cache.Refresh()
	cache.LoadYear(2020)
	if loader.yearCalls != 3 {
		t.Errorf("underlying LoadYear calls after Refresh = %d, want 3", loader.yearCalls)
	}
}

func TestCache_FullTableIsNotAYear(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "weather_2020", "a.csv", kaggleHeader+"\n2020-01-01,0000,20,50\n")
	cache := NewCache(NewStore(testDataConfig(dir)))

	all, err := cache.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}
	if all.Len() != 1 {
		t.Fatalf("LoadAll() rows = %d, want 1", all.Len())
	}

	if _, err := cache.LoadYear(0); !errors.Is(err, ErrNoDataFound) {
		t.Errorf("LoadYear(0) after LoadAll() error = %v, want ErrNoDataFound", err)
	}

	if _, err := cache.LoadYear(2020); err != nil {
		t.Fatalf("LoadYear(2020) error = %v", err)
	}
	cache.Refresh()
	if again, err := cache.LoadAll(); err != nil || again.Len() != 1 {
		t.Errorf("LoadAll() after Refresh = %v, %v", again, err)
	}
}

func TestCache_ErrorsAreNotCached(t *testing.T) {
	loader := &countingLoader{err: ErrNoDataFound}
	cache := NewCache(loader)

	cache.LoadYear(2020)
	_, err := cache.LoadYear(2020)
	if !errors.Is(err, ErrNoDataFound) {
		t.Errorf("LoadYear() error = %v, want ErrNoDataFound", err)
	}
	if loader.yearCalls != 2 {
		t.Errorf("underlying LoadYear calls = %d, want 2", loader.yearCalls)
	}
}

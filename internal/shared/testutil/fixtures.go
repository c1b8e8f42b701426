package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// LifeExpectancy is the indicator with a SEX breakdown in SampleCSV
const LifeExpectancy = "Life expectancy at birth (years)"

// MaternalMortality is the single-year indicator without a breakdown in SampleCSV
const MaternalMortality = "Maternal mortality ratio (per 100 000 live births)"

// SampleCSV is a small Botswana GHO extract including the HXL metadata row.
// The all-breakdown average of LifeExpectancy is 48, 56 and 63.
const SampleCSV = `GHO (CODE),GHO (DISPLAY),YEAR (DISPLAY),COUNTRY (DISPLAY),DIMENSION (TYPE),DIMENSION (NAME),Numeric
#indicator+code,#indicator+name,#date+year,#country+name,#dimension+type,#dimension+name,#indicator+value+num
WHOSIS_000001,Life expectancy at birth (years),2000,Botswana,SEX,Female,50
WHOSIS_000001,Life expectancy at birth (years),2000,Botswana,SEX,Male,46
WHOSIS_000001,Life expectancy at birth (years),2010,Botswana,SEX,Female,58
WHOSIS_000001,Life expectancy at birth (years),2010,Botswana,SEX,Male,54
WHOSIS_000001,Life expectancy at birth (years),2019,Botswana,SEX,Female,66
WHOSIS_000001,Life expectancy at birth (years),2019,Botswana,SEX,Male,60
MDG_0000000026,Maternal mortality ratio (per 100 000 live births),2017,Botswana,,,144
`

// WriteDataset writes SampleCSV into a temp dir and returns its path
func WriteDataset(t testing.TB) string {
	t.Helper()
	return WriteFile(t, "gho.csv", SampleCSV)
}

// WriteFile writes content to name inside a temp dir and returns the path
func WriteFile(t testing.TB, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture %s: %v", path, err)
	}
	return path
}

// MissingPath returns a path inside a temp dir that does not exist
func MissingPath(t testing.TB) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "missing.csv")
}

package pipeline

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	slashDate     = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
	dashDate      = regexp.MustCompile(`^(\d{1,2})-(\d{1,2})-(\d{4})$`)
	isoDate       = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	isoTimestamp  = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2}) \d{2}:\d{2}:\d{2}$`)
	serialPattern = regexp.MustCompile(`^\d+(\.\d+)?$`)
)

// Largest serial Excel accepts (9999-12-31).
const maxExcelSerial = 2958465

// NormalizeDate converts the accepted renewal date shapes and Excel serials
// to YYYY-MM-DD. Unrecognized input is returned trimmed.
func NormalizeDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	switch {
	case isoDate.MatchString(s):
		return s
	case isoTimestamp.MatchString(s):
		return isoTimestamp.FindStringSubmatch(s)[1]
	case slashDate.MatchString(s):
		m := slashDate.FindStringSubmatch(s)
		return ymd(m[3], m[2], m[1])
	case dashDate.MatchString(s):
		m := dashDate.FindStringSubmatch(s)
		return ymd(m[3], m[2], m[1])
	case serialPattern.MatchString(s):
		if d, ok := fromExcelSerial(s); ok {
			return d
		}
	}

	return s
}

// DisplayDate renders a YYYY-MM-DD date as DD/MM/YYYY; other values pass through.
func DisplayDate(s string) string {
	if !isoDate.MatchString(s) {
		return s
	}
	return fmt.Sprintf("%s/%s/%s", s[8:10], s[5:7], s[0:4])
}

func ymd(year, month, day string) string {
	m, _ := strconv.Atoi(month)
	d, _ := strconv.Atoi(day)
	return fmt.Sprintf("%s-%02d-%02d", year, m, d)
}

func fromExcelSerial(s string) (string, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 1 || f > maxExcelSerial {
		return "", false
	}
	t, err := excelize.ExcelDateToTime(f, false)
	if err != nil {
		return "", false
	}
	return t.Format("2006-01-02"), true
}

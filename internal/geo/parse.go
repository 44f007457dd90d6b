package geo

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Accepts 40°30'15.2"N, 40 30 15.2 N and 40d30m15.2sN.
var dmsRegex = regexp.MustCompile(
	`^(\d{1,3})\s*[°d:\s]\s*` + // degrees
		`(\d{1,2})\s*['m:\s]\s*` + // minutes
		`(\d{1,2}(?:\.\d+)?)\s*(?:"|''|s)?\s*` + // seconds
		`([NSEWnsew])$`, // hemisphere
)

// ParseDMS reads a degrees-minutes-seconds angle with a hemisphere letter.
func ParseDMS(s string) (DMS, error) {
	m := dmsRegex.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return DMS{}, fmt.Errorf("%w: cannot parse %q as DMS", ErrDomain, s)
	}

	deg, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])
	sec, _ := strconv.ParseFloat(m[3], 64)

	d := DMS{
		Hemisphere: strings.ToUpper(m[4])[0],
		Degrees:    deg,
		Minutes:    minutes,
		Seconds:    sec,
	}
	if _, err := d.Decimal(); err != nil {
		return DMS{}, err
	}
	return d, nil
}

// ParsePoint reads "lat,lon" where each part is decimal degrees or DMS.
func ParsePoint(s string) (Point, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return Point{}, fmt.Errorf("%w: want \"lat,lon\", got %q", ErrDomain, s)
	}

	lat, err := parseAngle(parts[0], 'N', 'S')
	if err != nil {
		return Point{}, fmt.Errorf("latitude: %w", err)
	}
	lon, err := parseAngle(parts[1], 'E', 'W')
	if err != nil {
		return Point{}, fmt.Errorf("longitude: %w", err)
	}

	p := Point{Lat: lat, Lon: lon}
	if !p.Valid() {
		return Point{}, fmt.Errorf("%w: %v,%v out of range", ErrDomain, lat, lon)
	}
	return p, nil
}

func parseAngle(s string, pos, neg byte) (float64, error) {
	s = strings.TrimSpace(s)
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v, nil
	}

	d, err := ParseDMS(s)
	if err != nil {
		return 0, err
	}
	if d.Hemisphere != pos && d.Hemisphere != neg {
		return 0, fmt.Errorf("%w: hemisphere %c, want %c or %c", ErrDomain, d.Hemisphere, pos, neg)
	}
	return d.Decimal()
}

package deviceinfo

import (
	"fmt"

	"github.com/mash-protocol/light-device/pkg/wire"
)

// MaxActiveLocaleLength is the longest locale tag the device reports.
const MaxActiveLocaleLength = 35

// EndpointID identifies an endpoint on the device.
type EndpointID uint16

// Label is a name/value pair attached to an endpoint.
type Label = wire.LabelRecord

// CalendarType is a calendar system the device can present dates in. Values
// follow the time format localization cluster.
type CalendarType uint8

// Calendar types.
const (
	CalendarBuddhist  CalendarType = 0
	CalendarChinese   CalendarType = 1
	CalendarCoptic    CalendarType = 2
	CalendarEthiopian CalendarType = 3
	CalendarGregorian CalendarType = 4
	CalendarHebrew    CalendarType = 5
	CalendarIndian    CalendarType = 6
	CalendarIslamic   CalendarType = 7
	CalendarJapanese  CalendarType = 8
	CalendarKorean    CalendarType = 9
	CalendarPersian   CalendarType = 10
	CalendarTaiwanese CalendarType = 11
)

var calendarTypeNames = map[CalendarType]string{
	CalendarBuddhist:  "Buddhist",
	CalendarChinese:   "Chinese",
	CalendarCoptic:    "Coptic",
	CalendarEthiopian: "Ethiopian",
	CalendarGregorian: "Gregorian",
	CalendarHebrew:    "Hebrew",
	CalendarIndian:    "Indian",
	CalendarIslamic:   "Islamic",
	CalendarJapanese:  "Japanese",
	CalendarKorean:    "Korean",
	CalendarPersian:   "Persian",
	CalendarTaiwanese: "Taiwanese",
}

// String returns the calendar name.
func (c CalendarType) String() string {
	if name, ok := calendarTypeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("CalendarType(%d)", uint8(c))
}

// defaultFixedLabels are reported for every endpoint.
var defaultFixedLabels = []Label{
	{Name: "room", Value: "bedroom 2"},
	{Name: "orientation", Value: "North"},
	{Name: "floor", Value: "2"},
	{Name: "direction", Value: "up"},
}

var defaultLocales = []string{
	"en-US",
	"de-DE",
	"fr-FR",
	"en-GB",
	"es-ES",
	"zh-CN",
	"it-IT",
	"ja-JP",
}

// Islamic is served last.
var defaultCalendarTypes = []CalendarType{
	CalendarBuddhist,
	CalendarChinese,
	CalendarCoptic,
	CalendarEthiopian,
	CalendarGregorian,
	CalendarHebrew,
	CalendarIndian,
	CalendarJapanese,
	CalendarKorean,
	CalendarPersian,
	CalendarTaiwanese,
	CalendarIslamic,
}

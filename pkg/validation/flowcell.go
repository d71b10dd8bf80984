package validation

import (
	"regexp"
	"strconv"
	"time"

	"github.com/digestiflow/flowsheet/pkg/errors"
)

var flowCellNameRE = regexp.MustCompile(`^(?P<date>\d{6})` +
	`_(?P<machine>[^_]+)` +
	`_(?P<run>\d+)` +
	`_(?P<slot>\w)` +
	`_(?P<vendor>[^_]+)` +
	`(_(?P<label>.+))?$`)

// FlowCellName holds the parts of a full flow cell name such as
// 160303_ST-K12345_0815_A_BCDEFGHIXX_LABEL.
type FlowCellName struct {
	RunDate   time.Time `json:"run_date" yaml:"run_date"`
	Machine   string    `json:"machine" yaml:"machine"`
	RunNumber int       `json:"run_number" yaml:"run_number"`
	Slot      string    `json:"slot" yaml:"slot"`
	VendorID  string    `json:"vendor_id" yaml:"vendor_id"`
	Label     string    `json:"label,omitempty" yaml:"label,omitempty"`
}

// ParseFlowCellName splits a full flow cell name into its parts.
func ParseFlowCellName(s string) (FlowCellName, error) {
	m := flowCellNameRE.FindStringSubmatch(s)
	if m == nil {
		return FlowCellName{}, errors.NewParseError("flowcell-name", s,
			"invalid flow cell name, did you forget the underscore between the slot and the vendor ID?", nil)
	}
	part := func(name string) string {
		return m[flowCellNameRE.SubexpIndex(name)]
	}

	date, err := time.Parse("060102", part("date"))
	if err != nil {
		return FlowCellName{}, errors.NewParseError("flowcell-name", s, "invalid run date", err)
	}
	run, err := strconv.Atoi(part("run"))
	if err != nil {
		return FlowCellName{}, errors.NewParseError("flowcell-name", s, "invalid run number", err)
	}
	return FlowCellName{
		RunDate:   date,
		Machine:   part("machine"),
		RunNumber: run,
		Slot:      part("slot"),
		VendorID:  part("vendor"),
		Label:     part("label"),
	}, nil
}

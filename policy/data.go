package policy

// Default 返回内置的休假政策目录
//
// 覆盖 US / India / UK 三个国家，数据与人事部门提供的政策表一致。
func Default() *Catalog {
	return &Catalog{
		countries: []string{"US", "India", "UK"},
		types: map[string][]string{
			"US":    {"PTO", "Sick Leave", "Parental Leave"},
			"India": {"Privilege Leave", "Casual Leave", "Sick Leave", "Optional Holidays", "Maternity Leave", "Paternity Leave"},
			"UK":    {"Annual Leave", "Sick Leave", "Parental Leave"},
		},
		policies: map[string]map[string]Policy{
			"US": {
				"PTO": {
					Description:        "Paid Time Off for vacation and personal days",
					AnnualAllowance:    20,
					CarryoverLimit:     5,
					MinNoticeDays:      3,
					MaxConsecutiveDays: 10,
					BlackoutPeriods:    []string{"Dec 20-31"},
					ApprovalRequired:   true,
				},
				"Sick Leave": {
					Description:            "Sick leave for medical appointments and illness",
					AnnualAllowance:        10,
					CarryoverLimit:         0,
					DocumentationAfterDays: 3,
				},
				"Parental Leave": {
					Description:       "Paid parental leave for new parents",
					AllowanceWeeks:    16,
					EligibilityMonths: 12,
					Paid:              true,
				},
			},
			"India": {
				"Privilege Leave": {
					Description:       "Earned leave for vacation and personal matters",
					AnnualAllowance:   18,
					CarryoverLimit:    30,
					MinNoticeDays:     7,
					EncashmentAllowed: true,
				},
				"Casual Leave": {
					Description:        "Short-term leave for urgent personal matters",
					AnnualAllowance:    12,
					CarryoverLimit:     0,
					MaxConsecutiveDays: 3,
				},
				"Sick Leave": {
					Description:            "Medical leave for illness and health issues",
					AnnualAllowance:        12,
					CarryoverLimit:         0,
					DocumentationAfterDays: 3,
				},
				"Optional Holidays": {
					Description:            "Choice of holidays from pre-approved list",
					AnnualAllowance:        3,
					FromList:               true,
					AdvanceBookingRequired: true,
				},
				"Maternity Leave": {
					Description:       "Maternity leave for expectant mothers",
					AllowanceWeeks:    26,
					EligibilityMonths: 6,
					Paid:              true,
				},
				"Paternity Leave": {
					Description:       "Paternity leave for new fathers",
					AllowanceDays:     15,
					EligibilityMonths: 12,
					Paid:              true,
				},
			},
			"UK": {
				"Annual Leave": {
					Description:      "Annual holiday entitlement",
					AnnualAllowance:  25,
					CarryoverLimit:   5,
					MinNoticeDays:    7,
					ApprovalRequired: true,
				},
				"Sick Leave": {
					Description:            "Sick leave with statutory sick pay",
					AnnualAllowance:        10,
					CarryoverLimit:         0,
					DocumentationAfterDays: 7,
					StatutorySickPay:       true,
				},
				"Parental Leave": {
					Description:       "Shared parental leave",
					AllowanceWeeks:    18,
					EligibilityMonths: 12,
					Paid:              true,
				},
			},
		},
	}
}

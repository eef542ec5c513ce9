package analytics

// View names as exposed over the API.
const (
	ViewTimePatterns   = "time-patterns"
	ViewDeviceLocation = "device-location"
	ViewDepartments    = "departments"
	ViewCombinations   = "combinations"
	ViewEmployees      = "employees"
)

// Views lists every view name in report order.
var Views = []string{ViewTimePatterns, ViewDeviceLocation, ViewDepartments, ViewCombinations, ViewEmployees}

type TimePatternRow struct {
	HourOfDay      int     `json:"hour_of_day"`
	DayOfWeek      string  `json:"day_of_week"`
	Total          int64   `json:"total_simulations"`
	Clicks         int64   `json:"clicks"`
	ClickRate      float64 `json:"click_rate"`
	Credentials    int64   `json:"credentials_provided"`
	CredentialRate float64 `json:"credential_rate"`
}

type DeviceLocationRow struct {
	DeviceType     string  `json:"device_type"`
	Location       string  `json:"location"`
	Total          int64   `json:"total_simulations"`
	Clicks         int64   `json:"clicks"`
	ClickRate      float64 `json:"click_rate"`
	CredentialRate float64 `json:"credential_rate"`
}

type DepartmentRow struct {
	Department       string  `json:"department"`
	EmployeeCount    int64   `json:"employee_count"`
	Total            int64   `json:"total_simulations"`
	Clicks           int64   `json:"total_clicks"`
	ClickRate        float64 `json:"click_rate"`
	CredentialRate   float64 `json:"credential_rate"`
	AvgTrainingScore float64 `json:"avg_training_score"`
}

type CombinationRow struct {
	HourOfDay  int     `json:"hour_of_day"`
	DayOfWeek  string  `json:"day_of_week"`
	DeviceType string  `json:"device_type"`
	Location   string  `json:"location"`
	Total      int64   `json:"simulations"`
	ClickRate  float64 `json:"click_rate"`
}

type EmployeeRow struct {
	EmployeeCode         string  `json:"employee_code"`
	Department           string  `json:"department"`
	TenureMonths         int     `json:"tenure_months"`
	TrainingScore        float64 `json:"security_training_score"`
	Total                int64   `json:"total_simulations"`
	TimesClicked         int64   `json:"times_clicked"`
	PersonalClickRate    float64 `json:"personal_click_rate"`
	TimesGaveCredentials int64   `json:"times_gave_credentials"`
}

// Summary is the store-wide headline.
type Summary struct {
	TotalEmployees int64   `json:"total_employees"`
	TotalEvents    int64   `json:"total_events"`
	Clicks         int64   `json:"clicks"`
	Credentials    int64   `json:"credentials"`
	ClickRate      float64 `json:"click_rate"`
	CredentialRate float64 `json:"credential_rate"`
}

// Report bundles the summary with all five views.
type Report struct {
	Summary        Summary             `json:"summary"`
	TimePatterns   []TimePatternRow    `json:"time_patterns"`
	DeviceLocation []DeviceLocationRow `json:"device_location"`
	Departments    []DepartmentRow     `json:"departments"`
	Combinations   []CombinationRow    `json:"combinations"`
	Employees      []EmployeeRow       `json:"employees"`
}

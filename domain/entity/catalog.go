package entity

// Option lists offered to data-entry collaborators.

var BreachTypes = []string{
	"Unauthorized Access",
	"Data Loss",
	"Ransomware/Malware",
	"Phishing Attack",
	"Insider Threat",
	"Third-Party/Vendor Breach",
	"Misconfiguration",
	"Physical Theft/Loss",
	"Accidental Disclosure",
	"System Vulnerability",
	"Other",
}

var RootCauses = []string{
	"Phishing/Social Engineering",
	"Weak Passwords/Authentication",
	"Misconfigured Systems",
	"Unpatched Software",
	"Inadequate Access Controls",
	"Third-Party/Vendor Error",
	"Human Error/Negligence",
	"Malicious Insider",
	"Physical Security Failure",
	"Unknown/Under Investigation",
}

var DataTypes = []string{
	"Personally Identifiable Information (PII)",
	"Financial Data",
	"Health/Medical Records",
	"Academic Records",
	"Employment Data",
	"Authentication Credentials",
	"Contact Information",
	"Biometric Data",
	"Other Sensitive Data",
}

// DefaultDataType is recorded when no data type was selected.
const DefaultDataType = "Other Sensitive Data"

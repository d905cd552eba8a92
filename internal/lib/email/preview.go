package email

// PreviewData holds sample variables for every template, keyed by template
// name, for local previews and template tests.
var PreviewData = map[Template]map[string]string{
	TemplateJobPosted: JobPosted{
		JobID:         42,
		Title:         "Backend Engineer",
		CompanyHandle: "acme",
	}.data(),
}

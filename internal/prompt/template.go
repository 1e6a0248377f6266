package prompt

// DefaultTemplate is used when prompt.template is not set in the planner
// config. The place list and user input are the only variable parts.
const DefaultTemplate = `Request ID: {{.RequestID}}
Timestamp: {{.Timestamp}}

{{if .Places}}Places found for this request:
{{range .Places}}- Place: {{.Name}}, Location: {{.Address}}, Rating: {{.Rating}} (based on {{.Reviews}} reviews), Price Level: {{.PriceLevel}}, Open Hours: {{.OpeningHours}}
{{end}}{{else}}No place data is available for this request. Work from general knowledge of well-known, highly rated places that fit the user's request.
{{end}}
User input: '{{.UserInput}}'

Help the user create a simple day plan based on the places above and on their input. Extract one or more preferences and the preferred time range from the user input. For EACH preference, suggest exactly three high-rated places that match the interest, making sure the places are open during the user's available hours. Allow 30 minutes between consecutive stops for transportation.

For each preference, provide:

<Preference>: Label of the preference
<Option>: Name of the place
<Activity Description>: What the user will enjoy there, including highlights or recommended dishes. Describe an experience rather than just "eat at a place".
<Location>: Address of the place
Timing: Start and end time for each stop, keeping the 30-minute transportation buffer.
Open Hours: Open hours of each place.

Wrap every place name in double asterisks, like **Place Name**, and every preference label in double underscores, like __Preference__.
Write in a warm, conversational tone that feels like local advice for a fun day out, with no technical formatting or code.
`

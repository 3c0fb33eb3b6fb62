package internal

import (
	"bytes"
	"text/template"
	"time"
)

type TemplateVars struct {
	FormatANSIC    string
	FormatRFC3339  string
	FormatTimeOnly string
	BuildProfile
	Time time.Time
}

func NewTemplateVars(profile BuildProfile) TemplateVars {
	return TemplateVars{
		BuildProfile:   profile,
		Time:           time.Now(),
		FormatRFC3339:  time.RFC3339,
		FormatTimeOnly: time.TimeOnly,
		FormatANSIC:    time.ANSIC,
	}
}

// ApplyBannerTemp renders a banner such as `/* {{.Name}} built {{.Time.Format .FormatRFC3339}} */`.
func (tVars *TemplateVars) ApplyBannerTemp(banner string) (string, error) {
	if banner == "" {
		return "", nil
	}
	bannerTmpl, err := template.New("bannerTemplate").Option("missingkey=error").Parse(banner)
	if err != nil {
		return "", err
	}
	out := new(bytes.Buffer)
	if err = bannerTmpl.Execute(out, tVars); err != nil {
		return "", err
	}
	return out.String(), nil
}

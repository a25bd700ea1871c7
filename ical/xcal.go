package ical

import (
	"fmt"
	"time"

	"github.com/beevik/etree"

	"github.com/cyp0633/libjscalendar/jscal"
)

const xcalNamespace = "urn:ietf:params:xml:ns:icalendar-2.0"

// EncodeXCal serializes one Event or Task to xCal XML (RFC 6321). The
// component structure mirrors the iCalendar export; recurrence overrides are
// left to the text format, which is the interchange form.
func EncodeXCal(obj jscal.CalendarObject) (string, error) {
	var compName string
	switch obj.Type() {
	case "Event":
		compName = "vevent"
	case "Task":
		compName = "vtodo"
	default:
		return "", fmt.Errorf("cannot export @type %q to xCal", obj.Type())
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("icalendar")
	root.CreateAttr("xmlns", xcalNamespace)
	vcal := root.CreateElement("vcalendar")

	calProps := vcal.CreateElement("properties")
	addTextProp(calProps, "version", "2.0")
	addTextProp(calProps, "prodid", prodID)

	comp := vcal.CreateElement("components").CreateElement(compName)
	props := comp.CreateElement("properties")

	addTextProp(props, "uid", obj.UID())
	if v := obj.GetString("title"); v != "" {
		addTextProp(props, "summary", v)
	}
	if v := obj.GetString("description"); v != "" {
		addTextProp(props, "description", v)
	}
	if err := addDateProp(props, obj, "start", "dtstart"); err != nil {
		return "", err
	}
	if obj.Type() == "Task" {
		if err := addDateProp(props, obj, "due", "due"); err != nil {
			return "", err
		}
	}
	rules, err := obj.RecurrenceRules()
	if err != nil {
		return "", err
	}
	for _, rule := range rules {
		value, err := RRuleString(rule)
		if err != nil {
			return "", err
		}
		prop := props.CreateElement("rrule")
		prop.CreateElement("recur").SetText(value)
	}

	doc.Indent(2)
	return doc.WriteToString()
}

func addTextProp(parent *etree.Element, name, value string) {
	parent.CreateElement(name).CreateElement("text").SetText(value)
}

func addDateProp(parent *etree.Element, obj jscal.CalendarObject, jsProp, xcalProp string) error {
	value := obj.GetString(jsProp)
	if value == "" {
		return nil
	}
	ldt, err := jscal.ParseLocalDateTime(value)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", jsProp, err)
	}
	prop := parent.CreateElement(xcalProp)
	if tz := obj.TimeZone(); tz != "" {
		params := prop.CreateElement("parameters")
		params.CreateElement("tzid").CreateElement("text").SetText(tz)
	}
	// xCal date-time keeps the extended form of the local value.
	prop.CreateElement("date-time").SetText(ldt.In(time.UTC).Format("2006-01-02T15:04:05"))
	return nil
}

package parsing

import (
	"fmt"
	"strings"

	"github.com/jonathan/resume-parser/internal/types"
)

// Job record markers, in the order the model is asked to emit them.
const (
	MarkerJobTitle        = "Job Title: "
	MarkerJobOrganization = "Job Organization: "
	MarkerJobLocation     = "Job Location: "
	MarkerJobDuration     = "Job Duration: "
	MarkerJobDescription  = "Job Description:"
)

// fieldMarkers follow the title inside each record.
var fieldMarkers = []string{MarkerJobOrganization, MarkerJobLocation, MarkerJobDuration, MarkerJobDescription}

// ParseWorkExperience splits the response on MarkerJobTitle and reads the five job
// fields of every non-empty segment in fixed order. The parse is all or nothing: if
// any segment lacks a marker, an empty (non-nil) list is returned with a *ParseError
// naming the marker and segment.
func ParseWorkExperience(raw string) ([]types.WorkExperience, error) {
	segments := strings.Split(strings.TrimSpace(raw), MarkerJobTitle)

	jobs := make([]types.WorkExperience, 0, len(segments))
	for i, segment := range segments {
		if strings.TrimSpace(segment) == "" {
			continue
		}

		job, err := parseJobSegment(segment)
		if err != nil {
			return []types.WorkExperience{}, &ParseError{
				Format:  types.FormatDelimited,
				Section: SectionWorkExperience,
				Message: fmt.Sprintf("segment %d: %v", i, err),
				Raw:     raw,
			}
		}
		jobs = append(jobs, job)
	}

	return jobs, nil
}

// parseJobSegment walks a cursor through the segment, cutting one field per marker.
// The description is everything after the last marker.
func parseJobSegment(segment string) (types.WorkExperience, error) {
	fields := make([]string, 0, len(fieldMarkers)+1)

	rest := segment
	for _, marker := range fieldMarkers {
		before, after, found := strings.Cut(rest, marker)
		if !found {
			return types.WorkExperience{}, fmt.Errorf("missing marker %q", strings.TrimSpace(marker))
		}
		fields = append(fields, strings.TrimSpace(before))
		rest = after
	}
	fields = append(fields, strings.TrimSpace(rest))

	return types.WorkExperience{
		JobTitle:     fields[0],
		Organization: fields[1],
		Location:     fields[2],
		Duration:     fields[3],
		Description:  fields[4],
	}, nil
}

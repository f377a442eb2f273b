package cost

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/k1dory/telecom-deploy/pkg/manifest"
	"github.com/k1dory/telecom-deploy/pkg/models"
)

// ApplyChanges applies optimization edits to the manifest set and returns a
// new map. Only files that were actually modified are re-serialized; every
// other entry is the input string unchanged. A change whose target matches
// no document is a no-op. An unknown change type is an input validation
// failure and aborts the whole call before anything is edited.
func (a *Analyzer) ApplyChanges(manifests map[string]string, changes []models.OptimizationChange) (map[string]string, error) {
	for _, change := range changes {
		if !validChangeType(change.Type) {
			return nil, fmt.Errorf("unknown optimization change type %q for target %q", change.Type, change.Target)
		}
	}

	result := make(map[string]string, len(manifests))
	for filename, content := range manifests {
		result[filename] = content
	}

	for _, change := range changes {
		for filename, content := range result {
			if !manifest.IsYAML(filename) {
				continue
			}

			docs, err := manifest.DecodeAll(content)
			if err != nil {
				slog.Warn("skipping malformed manifest while applying optimization", "file", filename, "error", err)
				continue
			}

			modified := false
			for _, doc := range docs {
				if manifest.Name(doc) != change.Target {
					continue
				}
				applied, err := applyChange(doc, change)
				if err != nil {
					return nil, fmt.Errorf("apply %s to %s: %w", change.Type, change.Target, err)
				}
				if applied {
					modified = true
				}
			}

			if modified {
				encoded, err := manifest.EncodeAll(docs)
				if err != nil {
					return nil, fmt.Errorf("re-serialize %s: %w", filename, err)
				}
				result[filename] = encoded
			}
		}
	}

	return result, nil
}

// applyChange edits one document in place. Returns whether anything changed.
func applyChange(doc manifest.Document, change models.OptimizationChange) (bool, error) {
	if manifest.Kind(doc) != "Deployment" {
		return false, nil
	}

	switch change.Type {
	case models.ChangeReduceReplicas:
		replicas, err := strconv.Atoi(change.To)
		if err != nil {
			return false, fmt.Errorf("replica count %q: %w", change.To, err)
		}
		spec := manifest.Map(doc, "spec")
		if spec == nil {
			return false, nil
		}
		spec["replicas"] = replicas
		return true, nil

	case models.ChangeReduceCPU:
		return setRequests(doc, "cpu", change.To), nil

	case models.ChangeReduceMemory:
		return setRequests(doc, "memory", change.To), nil

	case models.ChangeEnableSpot, models.ChangeOptimizeHPA:
		// Valid proposals, but carried as advice rather than manifest
		// edits; scheduling and autoscaler tuning happen out of band.
		return false, nil
	}

	return false, nil
}

// setRequests writes a resource request into every container, creating the
// resources/requests maps when absent.
func setRequests(doc manifest.Document, resourceName, value string) bool {
	containers := manifest.Maps(doc, "spec", "template", "spec", "containers")
	if len(containers) == 0 {
		return false
	}

	for _, container := range containers {
		resources, ok := container["resources"].(map[string]interface{})
		if !ok {
			resources = map[string]interface{}{}
			container["resources"] = resources
		}
		requests, ok := resources["requests"].(map[string]interface{})
		if !ok {
			requests = map[string]interface{}{}
			resources["requests"] = requests
		}
		requests[resourceName] = value
	}
	return true
}

func validChangeType(t models.ChangeType) bool {
	switch t {
	case models.ChangeReduceCPU, models.ChangeReduceMemory, models.ChangeReduceReplicas,
		models.ChangeEnableSpot, models.ChangeOptimizeHPA:
		return true
	}
	return false
}

package graph

import "github.com/flowctl/flowctl/internal/ferrors"

// CheckImageRefsUnique forbids two declared image entries, anywhere in the
// flow including nested actions, from resolving to the same registry ref.
func CheckImageRefsUnique(flow *FlowSpec) error {
	seen := make(map[string]Path, len(flow.ImageRefs))
	for _, ref := range flow.ImageRefs {
		if _, dup := seen[ref.Ref]; dup {
			return &ferrors.DuplicateImageRef{Ref: ref.Ref}
		}
		seen[ref.Ref] = ref.Path
	}
	return nil
}

package output

import "context"

// CodeSource materializes a view of the source code under improvement.
// A load failure is a collaborator failure and aborts the current cycle.
type CodeSource interface {
	Load(ctx context.Context, workdir string) (string, error)
}

// ChangeApplier applies a proposed change artifact to the working tree.
// Revert must restore the tree to its pre-Apply state even after a
// partial or failed apply.
type ChangeApplier interface {
	Apply(ctx context.Context, artifact string, workdir string) error
	Revert(ctx context.Context, workdir string) error
}

package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextChainReturnsMostRecentFirstIncludingSelf(t *testing.T) {
	root := NewRootContext("A", nil, nil, nil)
	child := root.Child("B", nil)
	grandchild := child.Child("C", nil)

	chain := grandchild.Chain()
	wantIDs := []string{"C", "B", "A"}
	var ids []string
	for _, c := range chain {
		ids = append(ids, c.ServiceId)
	}
	assert.Equal(t, wantIDs, ids)
}

func TestRootContextHasNilParentAndZeroDepth(t *testing.T) {
	root := NewRootContext("A", nil, nil, nil)
	assert.Nil(t, root.Parent)
	assert.Equal(t, 0, root.Depth)
}

package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommentAttachment(t *testing.T) {
	t.Parallel()

	top := NewTopLevelComment("hi", 1, 10)
	assert.True(t, top.IsTopLevel())
	assert.False(t, top.IsChild())
	assert.NoError(t, top.Validate())

	child := NewChildComment("re", 2, 100)
	assert.True(t, child.IsChild())
	assert.NoError(t, child.Validate())

	postID, parentID := int64(10), int64(100)
	both := &Comment{PostID: &postID, ParentID: &parentID}
	assert.ErrorIs(t, both.Validate(), ErrCommentAttachment)

	none := &Comment{}
	assert.ErrorIs(t, none.Validate(), ErrCommentAttachment)
}

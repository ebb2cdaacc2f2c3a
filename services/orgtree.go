package services

import (
	"sort"
	"strings"

	"performance-review-api/models"
)

// TreeNode is one user in the reporting hierarchy.
type TreeNode struct {
	User     models.User
	Children []*TreeNode
}

// BuildPeopleTree arranges active users into reporting trees, one root per
// boss. Users whose manager is missing from the input are treated as roots
// too, so a filtered slice still yields a complete forest.
func BuildPeopleTree(users []models.User) []*TreeNode {
	byID := make(map[uint]*TreeNode, len(users))
	for i := range users {
		byID[users[i].UserID] = &TreeNode{User: users[i]}
	}

	var roots []*TreeNode
	for i := range users {
		node := byID[users[i].UserID]
		managerID := users[i].ManagerID
		if managerID == nil {
			roots = append(roots, node)
			continue
		}
		parent, ok := byID[*managerID]
		if !ok {
			roots = append(roots, node)
			continue
		}
		parent.Children = append(parent.Children, node)
	}

	sortNodes(roots)
	for _, node := range byID {
		sortNodes(node.Children)
	}
	return roots
}

func sortNodes(nodes []*TreeNode) {
	sort.Slice(nodes, func(i, j int) bool {
		return nodes[i].User.DisplayName() < nodes[j].User.DisplayName()
	})
}

// RenderPeopleTree prints the forest as nested text indented by depth, with
// an "[X] " prefix for users who sit out the review (HR shares this).
func RenderPeopleTree(roots []*TreeNode) string {
	var b strings.Builder
	for _, root := range roots {
		renderNode(&b, root, 0)
	}
	return b.String()
}

func renderNode(b *strings.Builder, node *TreeNode, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
	if !node.User.IsReviewable {
		b.WriteString("[X] ")
	}
	b.WriteString(node.User.HRFriendlyName())
	b.WriteString("\n")
	for _, child := range node.Children {
		renderNode(b, child, depth+1)
	}
}

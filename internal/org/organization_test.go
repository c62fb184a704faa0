package org

import (
	"testing"
)

// TestPurpose: Validates the fixed allowed-children table for org types.
// Scope: Unit Test
// Expected: internal→partner, partner→{sub_partner, client}, sub_partner→client; client and renter are leaves.
// Test Case ID: ORG-01
func TestOrgType_AllowsChild(t *testing.T) {
	tests := []struct {
		parent  OrgType
		child   OrgType
		allowed bool
	}{
		{TypeInternal, TypePartner, true},
		{TypeInternal, TypeClient, false},
		{TypeInternal, TypeInternal, false},
		{TypePartner, TypeSubPartner, true},
		{TypePartner, TypeClient, true},
		{TypePartner, TypePartner, false},
		{TypeSubPartner, TypeClient, true},
		{TypeSubPartner, TypeSubPartner, false},
		{TypeClient, TypeRenter, false},
		{TypeClient, TypeClient, false},
		{TypeRenter, TypeClient, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.parent)+"_"+string(tt.child), func(t *testing.T) {
			if got := tt.parent.AllowsChild(tt.child); got != tt.allowed {
				t.Errorf("%s.AllowsChild(%s) = %v, want %v", tt.parent, tt.child, got, tt.allowed)
			}
		})
	}
}

// TestPurpose: Validates materialized path decoding and O(1) ancestor checks.
// Scope: Unit Test
// Expected: AncestorIDs decodes root-first; HasAncestor is containment on the path.
// Test Case ID: ORG-02
func TestOrganization_MaterializedPath(t *testing.T) {
	root := &Organization{ID: "root-1", MaterializedPath: RootPath}
	if got := root.AncestorIDs(); len(got) != 0 {
		t.Errorf("root AncestorIDs = %v, want empty", got)
	}
	if !root.IsRoot() {
		t.Error("root should report IsRoot")
	}
	if root.ChildPath() != "/root-1/" {
		t.Errorf("root ChildPath = %q, want /root-1/", root.ChildPath())
	}

	parentID := "root-1"
	grandchild := &Organization{
		ID:               "client-1",
		ParentID:         &parentID,
		Depth:            2,
		MaterializedPath: "/root-1/partner-1/",
	}

	ids := grandchild.AncestorIDs()
	if len(ids) != 2 || ids[0] != "root-1" || ids[1] != "partner-1" {
		t.Errorf("AncestorIDs = %v, want [root-1 partner-1]", ids)
	}

	if !grandchild.HasAncestor("root-1") {
		t.Error("expected root-1 to be an ancestor")
	}
	if !grandchild.HasAncestor("partner-1") {
		t.Error("expected partner-1 to be an ancestor")
	}
	if grandchild.HasAncestor("client-1") {
		t.Error("an organization is not its own ancestor")
	}
	if grandchild.HasAncestor("other") {
		t.Error("unrelated org must not be an ancestor")
	}
}

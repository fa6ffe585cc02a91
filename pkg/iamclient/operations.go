// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package iamclient

import (
	"context"
	"errors"

	"github.com/LeeDigitalWorks/s3bridge/pkg/s3err"
	"github.com/LeeDigitalWorks/s3bridge/pkg/xmlcodec"
)

var (
	errMissingAccessKey = errors.New("iamclient: CreateAccessKey response missing AccessKey")
	errMissingPolicy    = errors.New("iamclient: CreatePolicy response missing Policy")
)

// User is an IAM user identity.
type User struct {
	UserName   string
	UserID     string
	Arn        string
	CreateDate string
}

// AccessKey is a credential pair. SecretAccessKey is only present in the
// CreateAccessKey response; it cannot be retrieved again.
type AccessKey struct {
	AccessKeyID     string
	SecretAccessKey string
	Status          string
}

// Policy is a managed policy reference.
type Policy struct {
	PolicyName string
	Arn        string
}

// CreateUser creates an IAM user.
func (c *Client) CreateUser(ctx context.Context, userName string) (*User, error) {
	root, err := c.do(ctx, "CreateUser", map[string]string{"UserName": userName})
	if err != nil {
		return nil, err
	}
	return userFromResult(root, "CreateUserResponse", "CreateUserResult"), nil
}

// GetUser fetches one IAM user.
func (c *Client) GetUser(ctx context.Context, userName string) (*User, error) {
	root, err := c.do(ctx, "GetUser", map[string]string{"UserName": userName})
	if err != nil {
		return nil, err
	}
	return userFromResult(root, "GetUserResponse", "GetUserResult"), nil
}

// DeleteUser removes an IAM user. Deleting an already-absent user succeeds:
// the operation is idempotent by nature, so NoSuchEntity is normalized away
// here rather than in the signing/codec core.
func (c *Client) DeleteUser(ctx context.Context, userName string) error {
	_, err := c.do(ctx, "DeleteUser", map[string]string{"UserName": userName})
	if s3err.IsCode(err, s3err.CodeNoSuchEntity) {
		return nil
	}
	return err
}

// ListUsers lists IAM users, optionally under a path prefix.
func (c *Client) ListUsers(ctx context.Context, pathPrefix string) ([]User, error) {
	params := map[string]string{}
	if pathPrefix != "" {
		params["PathPrefix"] = pathPrefix
	}
	root, err := c.do(ctx, "ListUsers", params)
	if err != nil {
		return nil, err
	}

	result := childNode(childNode(root, "ListUsersResponse"), "ListUsersResult")
	if result == nil {
		return nil, nil
	}

	var users []User
	members := childNode(result, "Users")
	for _, v := range asList(members["member"]) {
		if m, ok := v.(xmlcodec.Node); ok {
			users = append(users, userFromNode(m))
		}
	}
	return users, nil
}

// CreateAccessKey mints a credential pair for userName. The secret is only
// returned once, on this call.
func (c *Client) CreateAccessKey(ctx context.Context, userName string) (*AccessKey, error) {
	root, err := c.do(ctx, "CreateAccessKey", map[string]string{"UserName": userName})
	if err != nil {
		return nil, err
	}

	result := childNode(childNode(root, "CreateAccessKeyResponse"), "CreateAccessKeyResult")
	key := childNode(result, "AccessKey")
	if key == nil {
		return nil, errMissingAccessKey
	}
	return &AccessKey{
		AccessKeyID:     nodeString(key, "AccessKeyId"),
		SecretAccessKey: nodeString(key, "SecretAccessKey"),
		Status:          nodeString(key, "Status"),
	}, nil
}

// DeleteAccessKey revokes one access key. NoSuchEntity is success.
func (c *Client) DeleteAccessKey(ctx context.Context, userName, accessKeyID string) error {
	_, err := c.do(ctx, "DeleteAccessKey", map[string]string{
		"UserName":    userName,
		"AccessKeyId": accessKeyID,
	})
	if s3err.IsCode(err, s3err.CodeNoSuchEntity) {
		return nil
	}
	return err
}

// CreatePolicy creates a managed policy from a JSON document. The document
// passes through verbatim as a form parameter.
func (c *Client) CreatePolicy(ctx context.Context, policyName, documentJSON string) (*Policy, error) {
	root, err := c.do(ctx, "CreatePolicy", map[string]string{
		"PolicyName":     policyName,
		"PolicyDocument": documentJSON,
	})
	if err != nil {
		return nil, err
	}

	result := childNode(childNode(root, "CreatePolicyResponse"), "CreatePolicyResult")
	p := childNode(result, "Policy")
	if p == nil {
		return nil, errMissingPolicy
	}
	return &Policy{
		PolicyName: nodeString(p, "PolicyName"),
		Arn:        nodeString(p, "Arn"),
	}, nil
}

// DeletePolicy removes a managed policy. NoSuchEntity is success.
func (c *Client) DeletePolicy(ctx context.Context, policyArn string) error {
	_, err := c.do(ctx, "DeletePolicy", map[string]string{"PolicyArn": policyArn})
	if s3err.IsCode(err, s3err.CodeNoSuchEntity) {
		return nil
	}
	return err
}

// ListPolicies lists managed policies.
func (c *Client) ListPolicies(ctx context.Context) ([]Policy, error) {
	root, err := c.do(ctx, "ListPolicies", nil)
	if err != nil {
		return nil, err
	}

	result := childNode(childNode(root, "ListPoliciesResponse"), "ListPoliciesResult")
	if result == nil {
		return nil, nil
	}

	var policies []Policy
	members := childNode(result, "Policies")
	for _, v := range asList(members["member"]) {
		if m, ok := v.(xmlcodec.Node); ok {
			policies = append(policies, Policy{
				PolicyName: nodeString(m, "PolicyName"),
				Arn:        nodeString(m, "Arn"),
			})
		}
	}
	return policies, nil
}

// AttachUserPolicy attaches a managed policy to a user.
func (c *Client) AttachUserPolicy(ctx context.Context, userName, policyArn string) error {
	_, err := c.do(ctx, "AttachUserPolicy", map[string]string{
		"UserName":  userName,
		"PolicyArn": policyArn,
	})
	return err
}

// DetachUserPolicy detaches a managed policy. NoSuchEntity is success.
func (c *Client) DetachUserPolicy(ctx context.Context, userName, policyArn string) error {
	_, err := c.do(ctx, "DetachUserPolicy", map[string]string{
		"UserName":  userName,
		"PolicyArn": policyArn,
	})
	if s3err.IsCode(err, s3err.CodeNoSuchEntity) {
		return nil
	}
	return err
}

func userFromResult(root xmlcodec.Node, responseTag, resultTag string) *User {
	result := childNode(childNode(root, responseTag), resultTag)
	u := childNode(result, "User")
	if u == nil {
		return &User{}
	}
	user := userFromNode(u)
	return &user
}

func userFromNode(n xmlcodec.Node) User {
	return User{
		UserName:   nodeString(n, "UserName"),
		UserID:     nodeString(n, "UserId"),
		Arn:        nodeString(n, "Arn"),
		CreateDate: nodeString(n, "CreateDate"),
	}
}

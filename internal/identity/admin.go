// Copyright 2026 The Ledgerline Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package identity

import (
	"errors"
	"time"
)

// Domain errors
var (
	ErrAdminNotFound      = errors.New("administrator not found")
	ErrAdminAlreadyExists = errors.New("administrator already exists")
	ErrInvalidEmail       = errors.New("invalid email address")
)

// RoleAdmin is the privileged role assigned to the first account of a
// tenant at provisioning time.
const RoleAdmin = "admin"

// Admin is an administrator account inside one tenant namespace. Email
// uniqueness is a property of the tenant's own namespace, not global.
type Admin struct {
	ID        string    `bson:"_id" json:"id"`
	Email     string    `bson:"email" json:"email"`
	Name      string    `bson:"name" json:"name"`
	Surname   string    `bson:"surname" json:"surname"`
	Company   string    `bson:"company,omitempty" json:"company,omitempty"`
	Role      string    `bson:"role" json:"role"`
	Enabled   bool      `bson:"enabled" json:"enabled"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Credential is the salted password record for an administrator. It is
// stored separately from the administrator profile.
type Credential struct {
	ID            string    `bson:"_id" json:"-"`
	AdminID       string    `bson:"admin_id" json:"-"`
	PasswordHash  string    `bson:"password_hash" json:"-"`
	Salt          string    `bson:"salt" json:"-"`
	EmailVerified bool      `bson:"email_verified" json:"-"`
	CreatedAt     time.Time `bson:"created_at" json:"-"`
}

// Profile carries the administrator fields supplied by the external
// account system when a tenant is provisioned.
type Profile struct {
	Email    string
	Name     string
	Surname  string
	Company  string
	Password string // optional initial password
}

/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package config

import "os"

// Credential environment variables shared by every command, so passwords
// can stay out of shell history and process listings. Typically populated
// from a .env file.
const (
	EnvUsername = "NETREPORT_USERNAME"
	EnvPassword = "NETREPORT_PASSWORD"
)

// Fallback returns value, or the named environment variable when value is
// empty. Used to let flags override env-supplied credentials.
func Fallback(value, envKey string) string {
	if value != "" {
		return value
	}

	return os.Getenv(envKey)
}

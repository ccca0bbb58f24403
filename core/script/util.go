/*
 * Copyright 2021. Go-Sharding Author All Rights Reserved.
 *
 *  Licensed under the Apache License, Version 2.0 (the "License");
 *  you may not use this file except in compliance with the License.
 *  You may obtain a copy of the License at
 *
 *      http://www.apache.org/licenses/LICENSE-2.0
 *
 *  Unless required by applicable law or agreed to in writing, software
 *  distributed under the License is distributed on an "AS IS" BASIS,
 *  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *  See the License for the specific language governing permissions and
 *  limitations under the License.
 *
 *  File author: Anders Xiao
 */

package script

// outJoin joins every prefix with every suffix keeping the order and dropping duplicates.
func outJoin(prefix []string, suffix []string) []string {
	if len(prefix) == 0 {
		return suffix
	}
	seen := make(map[string]struct{}, len(prefix)*len(suffix))
	r := make([]string, 0, len(prefix)*len(suffix))
	for _, p := range prefix {
		for _, v := range suffix {
			name := p + v
			if _, ok := seen[name]; name != "" && !ok {
				seen[name] = struct{}{}
				r = append(r, name)
			}
		}
	}
	return r
}

func flatFill(prefix string, suffix ...string) []string {
	r := make([]string, 0, len(suffix))
	for _, v := range suffix {
		r = append(r, prefix+v)
	}
	return r
}

/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package version

import (
	"fmt"
	"strings"
)

const licenseSeparator = "********************************************************************************"

const unlicenseText = `This is free and unencumbered software released into the public domain.

Anyone is free to copy, modify, publish, use, compile, sell, or distribute
this software, either in source code form or as a compiled binary, for any
purpose, commercial or non-commercial, and by any means.

In jurisdictions that recognize copyright laws, the author or authors of this
software dedicate any and all copyright interest in the software to the public
domain. We make this dedication for the benefit of the public at large and to
the detriment of our heirs and successors.

For more information, please refer to <https://unlicense.org>`

// formalName returns each license's own title text, as it appears at the top
// of the license document itself.
func formalName(lic License) string {
	switch lic {
	case License_MIT:
		return "MIT License"
	case License_Apache_v2:
		return "Apache License, Version 2.0"
	case License_GNU_GPL_v3:
		return "GNU GENERAL PUBLIC LICENSE Version 3"
	case License_GNU_Affero_GPL_v3:
		return "GNU AFFERO GENERAL PUBLIC LICENSE Version 3"
	case License_GNU_Lesser_GPL_v3:
		return "GNU LESSER GENERAL PUBLIC LICENSE Version 3"
	case License_Mozilla_PL_v2:
		return "Mozilla Public License, Version 2.0"
	case License_Unlicense:
		return "Free and unencumbered software"
	case License_Creative_Common_Zero_v1:
		return "Creative Commons CC0 1.0 Universal"
	case License_Creative_Common_Attribution_v4_int:
		return "Creative Commons Attribution 4.0 International"
	case License_Creative_Common_Attribution_Share_Alike_v4_int:
		return "Creative Commons Attribution-ShareAlike 4.0 International"
	case License_SIL_Open_Font_1_1:
		return "SIL OPEN FONT LICENSE Version 1.1"
	}
	return "Unknown License"
}

// niceName is the mixed-case label used in boilerplate notices, distinct from
// formalName's document-title casing.
func niceName(lic License) string {
	switch lic {
	case License_MIT:
		return "MIT License"
	case License_Apache_v2:
		return "Apache License, Version 2.0"
	case License_GNU_GPL_v3:
		return "GNU General Public License, Version 3"
	case License_GNU_Affero_GPL_v3:
		return "GNU Affero General Public License, Version 3"
	case License_GNU_Lesser_GPL_v3:
		return "GNU Lesser General Public License, Version 3"
	case License_Mozilla_PL_v2:
		return "Mozilla Public License, Version 2.0"
	case License_Creative_Common_Zero_v1:
		return "Creative Commons CC0 1.0 Universal"
	case License_Creative_Common_Attribution_v4_int:
		return "Creative Commons Attribution 4.0 International"
	case License_Creative_Common_Attribution_Share_Alike_v4_int:
		return "Creative Commons Attribution Share Alike 4.0 International"
	case License_SIL_Open_Font_1_1:
		return "SIL Open Font License, Version 1.1"
	}
	return "Unlicense"
}

// boilerOne renders the short copyright-header notice a source file would
// carry under lic.
func boilerOne(lic License, pkg, desc, author string, year int) string {
	if lic == License_Unlicense {
		return unlicenseText
	}
	return fmt.Sprintf(
		"%s\n%s\n\nCopyright (c) %d %s\n\nThis program is distributed under the terms of the %s.\n",
		pkg, desc, year, author, niceName(lic),
	)
}

// legalOne renders the full body text of lic.
func legalOne(lic License) string {
	switch lic {
	case License_MIT:
		return `MIT License

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
SOFTWARE.`
	case License_Apache_v2:
		return `Apache License
Version 2.0, January 2004

Licensed under the Apache License, Version 2.0 (the "License"); you may not
use this file except in compliance with the License. You may obtain a copy of
the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the
License for the specific language governing permissions and limitations
under the License.`
	case License_GNU_GPL_v3:
		return `GNU GENERAL PUBLIC LICENSE
Version 3, 29 June 2007

This program is free software: you can redistribute it and/or modify it
under the terms of the GNU General Public License as published by the Free
Software Foundation, either version 3 of the License, or (at your option)
any later version.

This program is distributed in the hope that it will be useful, but WITHOUT
ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or FITNESS
FOR A PARTICULAR PURPOSE. See the GNU General Public License for more
details. You should have received a copy of the GNU General Public License
along with this program. If not, see <https://www.gnu.org/licenses/>.`
	case License_GNU_Affero_GPL_v3:
		return `GNU AFFERO GENERAL PUBLIC LICENSE
Version 3, 19 November 2007

This program is free software: you can redistribute it and/or modify it
under the terms of the GNU Affero General Public License as published by the
Free Software Foundation, either version 3 of the License, or (at your
option) any later version. If you modify this program and run it over a
network, remote users interacting with it must be offered its source code.`
	case License_GNU_Lesser_GPL_v3:
		return `GNU LESSER GENERAL PUBLIC LICENSE
Version 3, 29 June 2007

This library is free software: you can redistribute it and/or modify it
under the terms of the GNU Lesser General Public License as published by the
Free Software Foundation, either version 3 of the License, or (at your
option) any later version.`
	case License_Mozilla_PL_v2:
		return `Mozilla Public License, Version 2.0

This Source Code Form is subject to the terms of the Mozilla Public License,
v. 2.0. If a copy of the MPL was not distributed with this file, you can
obtain one at <https://mozilla.org/MPL/2.0/>.`
	case License_Unlicense:
		return unlicenseText
	case License_Creative_Common_Zero_v1:
		return `Creative Commons CC0 1.0 Universal

The person who associated a work with this deed has dedicated the work to
the public domain by waiving all of their rights to the work worldwide under
copyright law, including all related and neighboring rights, to the extent
allowed by law.`
	case License_Creative_Common_Attribution_v4_int:
		return `Creative Commons Attribution 4.0 International

You are free to share and adapt the material for any purpose, even
commercially, as long as you give appropriate credit, provide a link to the
license, and indicate if changes were made.`
	case License_Creative_Common_Attribution_Share_Alike_v4_int:
		return `Creative Commons Attribution-ShareAlike 4.0 International

You are free to share and adapt the material for any purpose, even
commercially, as long as you give appropriate credit and distribute your
contributions under the same license as the original.`
	case License_SIL_Open_Font_1_1:
		return `SIL OPEN FONT LICENSE
Version 1.1, 26 February 2007

This license allows the licensed fonts to be used, studied, modified and
redistributed freely as long as they are not sold by themselves, and that
derivative works are distributed under the same license.`
	}
	return ""
}

func (v *vers) GetLicenseName() string {
	return formalName(v.lic)
}

func (v *vers) GetLicenseLegal(extra ...License) string {
	parts := []string{legalOne(v.lic)}
	for _, e := range extra {
		parts = append(parts, licenseSeparator, licenseSeparator, legalOne(e))
	}
	return strings.Join(parts, "\n")
}

func (v *vers) GetLicenseBoiler(extra ...License) string {
	year := v.date.Year()
	parts := []string{boilerOne(v.lic, v.pkg, v.desc, v.auth, year)}
	for _, e := range extra {
		parts = append(parts, boilerOne(e, v.pkg, v.desc, v.auth, year))
	}
	return strings.Join(parts, "\n\n")
}

func (v *vers) GetLicenseFull(extra ...License) string {
	return v.GetLicenseBoiler(extra...) + "\n" + licenseSeparator + "\n" + v.GetLicenseLegal(extra...)
}

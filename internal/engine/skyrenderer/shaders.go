package skyrenderer

// The sky is drawn as a cylindrical panorama: screen x spans compass
// bearing with south in the middle, screen y spans altitude from
// uMinAltitude to the zenith. Directions use the lighting host frame
// (Y up, +X east, +Z south).

const vertexShader = `
#version 410 core

out vec2 vUV;

void main() {
	// Full-screen triangle from gl_VertexID, no vertex buffer.
	vec2 pos = vec2((gl_VertexID << 1) & 2, gl_VertexID & 2);
	vUV = pos;
	gl_Position = vec4(pos * 2.0 - 1.0, 0.0, 1.0);
}
`

const fragmentShader = `
#version 410 core

in vec2 vUV;
out vec4 FragColor;

uniform float uMinAltitude;

uniform vec3  uSunDir;
uniform vec3  uSunColor;
uniform float uSunIntensity;

uniform int   uMoonPresent;
uniform vec3  uMoonDir;
uniform vec3  uMoonColor;
uniform float uMoonIntensity;
uniform float uMoonIllumination;

uniform vec3  uAmbientColor;
uniform float uAmbientIntensity;
uniform vec3  uSkyColor;
uniform vec3  uGroundColor;
uniform float uSkyIntensity;

uniform int uHelperSun;
uniform int uHelperMoon;

const float PI = 3.14159265359;
const float SUN_RADIUS = 0.0093;  // angular radius, widened for visibility
const float MOON_RADIUS = 0.0180;

vec3 viewDir(vec2 uv) {
	// u = 0.5 is south; azimuth grows clockwise (toward west).
	float az = (uv.x - 0.5) * 2.0 * PI;
	float alt = mix(uMinAltitude, 0.5 * PI, uv.y);
	float c = cos(alt);
	return vec3(-sin(az) * c, sin(alt), cos(az) * c);
}

float disc(vec3 dir, vec3 center, float radius) {
	float d = acos(clamp(dot(dir, center), -1.0, 1.0));
	return 1.0 - smoothstep(radius * 0.85, radius, d);
}

float ring(vec3 dir, vec3 center, float radius) {
	float d = acos(clamp(dot(dir, center), -1.0, 1.0));
	return smoothstep(radius * 2.6, radius * 2.8, d) * (1.0 - smoothstep(radius * 3.0, radius * 3.2, d));
}

void main() {
	vec3 dir = viewDir(vUV);

	float h = clamp(dir.y * 4.0, -1.0, 1.0) * 0.5 + 0.5;
	vec3 color = mix(uGroundColor, uSkyColor, h) * uSkyIntensity;
	color += uAmbientColor * uAmbientIntensity * 0.25;

	float horizon = 1.0 - smoothstep(0.0, 0.004, abs(dir.y));
	color = mix(color, vec3(0.05), horizon * 0.6);

	if (dir.y > 0.0) {
		float sunDisc = disc(dir, uSunDir, SUN_RADIUS);
		float glow = pow(max(dot(dir, uSunDir), 0.0), 256.0);
		color += uSunColor * (sunDisc * 4.0 + glow * 0.6) * uSunIntensity;

		if (uMoonPresent == 1 && uMoonDir.y > 0.0) {
			float moonDisc = disc(dir, uMoonDir, MOON_RADIUS);
			// Terminator: lit fraction grows from the sun side.
			vec3 toSun = normalize(uSunDir - dot(uSunDir, uMoonDir) * uMoonDir);
			vec3 offset = dir - uMoonDir;
			float side = dot(offset, toSun) / max(length(offset), 1e-6);
			float lit = step(1.0 - 2.0 * uMoonIllumination, side);
			vec3 moon = uMoonColor * mix(0.06, 1.0, lit);
			color = mix(color, moon * (0.4 + 40.0 * uMoonIntensity), moonDisc);
		}
	}

	if (uHelperSun == 1) {
		color = mix(color, vec3(1.0, 0.85, 0.2), ring(dir, uSunDir, SUN_RADIUS));
	}
	if (uHelperMoon == 1 && uMoonPresent == 1) {
		color = mix(color, vec3(0.5, 0.7, 1.0), ring(dir, uMoonDir, MOON_RADIUS));
	}

	// Reinhard tone map
	color = color / (color + vec3(1.0));
	FragColor = vec4(pow(color, vec3(1.0 / 2.2)), 1.0);
}
`

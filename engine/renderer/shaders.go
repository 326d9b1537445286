package renderer

// Vector glyphs: each point carries a root and a vector; the geometry shader
// expands it into a shaded shaft plus cone in world space.

const PassthruVectorVertShader = `#version 410 core
in vec3 a_position;
in vec3 a_vector;
out vec3 vectorToGeom;

void main() {
	gl_Position = vec4(a_position, 1.0);
	vectorToGeom = a_vector;
}
`

const VectorGeomShader = `#version 410 core
layout(points) in;
layout(triangle_strip, max_vertices = 40) out;

in vec3 vectorToGeom[];

uniform mat4 u_viewMatrix;
uniform mat4 u_projMatrix;
uniform float u_lengthMult;
uniform float u_radius;

out vec3 worldNormal;
out vec3 worldPos;

const int N_SIDES = 8;
const float TWO_PI = 6.28318530718;

void emit(vec3 p, vec3 n) {
	worldPos = p;
	worldNormal = n;
	gl_Position = u_projMatrix * u_viewMatrix * vec4(p, 1.0);
	EmitVertex();
}

void main() {
	vec3 root = gl_in[0].gl_Position.xyz;
	vec3 vec = vectorToGeom[0] * u_lengthMult;
	float len = length(vec);
	if (len <= 0.0) {
		return;
	}
	vec3 dir = vec / len;
	vec3 ref = abs(dir.x) < 0.9 ? vec3(1.0, 0.0, 0.0) : vec3(0.0, 1.0, 0.0);
	vec3 bx = normalize(cross(dir, ref));
	vec3 by = cross(dir, bx);

	float coneLen = min(0.3 * len, 8.0 * u_radius);
	vec3 shaftEnd = root + dir * (len - coneLen);
	vec3 tip = root + vec;

	for (int i = 0; i <= N_SIDES; i++) {
		float t = TWO_PI * float(i) / float(N_SIDES);
		vec3 n = cos(t) * bx + sin(t) * by;
		emit(root + u_radius * n, n);
		emit(shaftEnd + u_radius * n, n);
	}
	EndPrimitive();

	for (int i = 0; i <= N_SIDES; i++) {
		float t = TWO_PI * float(i) / float(N_SIDES);
		vec3 n = cos(t) * bx + sin(t) * by;
		vec3 slanted = normalize(n + dir * (2.0 * u_radius / coneLen));
		emit(shaftEnd + 2.0 * u_radius * n, slanted);
		emit(tip, slanted);
	}
	EndPrimitive();
}
`

const ShinyFragShader = `#version 410 core
uniform vec3 u_eye;
uniform vec3 u_lightCenter;
uniform float u_lightDist;
uniform vec3 u_color;

in vec3 worldNormal;
in vec3 worldPos;
out vec4 outputF;

vec3 shade(vec3 lightPos, vec3 n, vec3 toEye) {
	vec3 toLight = normalize(lightPos - worldPos);
	float diffuse = max(dot(n, toLight), 0.0);
	vec3 halfway = normalize(toLight + toEye);
	float specular = pow(max(dot(n, halfway), 0.0), 32.0);
	return diffuse * u_color + 0.3 * specular * vec3(1.0);
}

void main() {
	vec3 n = normalize(worldNormal);
	vec3 toEye = normalize(u_eye - worldPos);
	if (dot(n, toEye) < 0.0) {
		n = -n;
	}
	vec3 lightA = u_lightCenter + vec3(u_lightDist, u_lightDist, u_lightDist);
	vec3 lightB = u_lightCenter + vec3(-u_lightDist, u_lightDist, -u_lightDist);
	vec3 color = 0.25 * u_color + 0.5 * shade(lightA, n, toEye) + 0.5 * shade(lightB, n, toEye);
	outputF = vec4(min(color, vec3(1.0)), 1.0);
}
`

// Ribbons: triangles built on the CPU from traced lines. The side vector is
// scaled by u_width in the shader so width changes need no re-upload.

const RibbonVertShader = `#version 410 core
in vec3 a_position;
in vec3 a_side;
in vec3 a_normal;

uniform mat4 u_viewMatrix;
uniform mat4 u_projMatrix;
uniform float u_width;
uniform float u_offset;

out vec3 worldNormal;
out vec3 worldPos;

void main() {
	vec3 p = a_position + u_width * a_side + u_offset * a_normal;
	worldPos = p;
	worldNormal = a_normal;
	gl_Position = u_projMatrix * u_viewMatrix * vec4(p, 1.0);
}
`

const RibbonFragShader = ShinyFragShader
